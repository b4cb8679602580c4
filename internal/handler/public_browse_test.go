package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-lecture-reservation/internal/config"
	"github.com/iliyamo/live-lecture-reservation/internal/model"
)

// fakeBrowser records the arguments of the last call and serves canned
// lectures keyed by teacher.
type fakeBrowser struct {
	byTeacher map[uint64][]model.Lecture
	all       []model.Lecture

	gotTeacher  uint64
	gotOneOnOne bool
}

func (f *fakeBrowser) ListAvailable(_ context.Context, _ time.Time, oneOnOne bool) ([]model.Lecture, error) {
	f.gotOneOnOne = oneOnOne
	return f.all, nil
}

func (f *fakeBrowser) ListAvailableByTeacher(_ context.Context, teacherID uint64, _ time.Time, oneOnOne bool) ([]model.Lecture, error) {
	f.gotTeacher = teacherID
	f.gotOneOnOne = oneOnOne
	return f.byTeacher[teacherID], nil
}

func (f *fakeBrowser) Search(_ context.Context, _ string, _ time.Time) ([]model.Lecture, error) {
	return f.all, nil
}

func browseLecture(id, teacherID uint64, title string) model.Lecture {
	return model.Lecture{
		ID:              id,
		UserID:          teacherID,
		Title:           title,
		StartDate:       time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC),
		StartTime:       time.Date(0, time.January, 1, 10, 0, 0, 0, time.UTC),
		EndTime:         time.Date(0, time.January, 1, 11, 0, 0, 0, time.UTC),
		AvailableDays:   "MON,WED",
		MaxParticipants: 5,
	}
}

func TestBrowseTeacherLectures(t *testing.T) {
	fb := &fakeBrowser{byTeacher: map[uint64][]model.Lecture{
		7: {browseLecture(1, 7, "algebra"), browseLecture(2, 7, "geometry")},
	}}
	h := NewPublicHandler(config.Config{}, fb)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/v1/teachers/7/lectures?one_on_one=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/teachers/:id/lectures")
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := h.BrowseTeacherLectures(c); err != nil {
		t.Fatalf("BrowseTeacherLectures: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fb.gotTeacher != 7 || !fb.gotOneOnOne {
		t.Errorf("query used teacher=%d oneOnOne=%v, want teacher=7 oneOnOne=true",
			fb.gotTeacher, fb.gotOneOnOne)
	}

	var body struct {
		Items []lectureResp `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(body.Items))
	}
	if body.Items[0].Teacher != 7 || body.Items[0].Title != "algebra" {
		t.Errorf("first item = %+v, want teacher 7 / algebra", body.Items[0])
	}
}

func TestBrowseTeacherLecturesUnknownTeacher(t *testing.T) {
	h := NewPublicHandler(config.Config{}, &fakeBrowser{byTeacher: map[uint64][]model.Lecture{}})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/v1/teachers/99/lectures", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := h.BrowseTeacherLectures(c); err != nil {
		t.Fatalf("BrowseTeacherLectures: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with an empty list", rec.Code)
	}
	var body struct {
		Items []lectureResp `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 0 {
		t.Errorf("items = %d, want 0", len(body.Items))
	}
}

func TestBrowseTeacherLecturesBadID(t *testing.T) {
	h := NewPublicHandler(config.Config{}, &fakeBrowser{})
	e := echo.New()
	for _, raw := range []string{"abc", "0", "-3"} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.SetParamNames("id")
		c.SetParamValues(raw)
		if err := h.BrowseTeacherLectures(c); err != nil {
			t.Fatalf("id %q: %v", raw, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("id %q: status = %d, want 400", raw, rec.Code)
		}
	}
}

func TestBrowseLecturesPassesOneOnOneFlag(t *testing.T) {
	fb := &fakeBrowser{all: []model.Lecture{browseLecture(3, 8, "piano")}}
	h := NewPublicHandler(config.Config{}, fb)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/lectures?one_on_one=true", nil), rec)
	if err := h.BrowseLectures(c); err != nil {
		t.Fatalf("BrowseLectures: %v", err)
	}
	if rec.Code != http.StatusOK || !fb.gotOneOnOne {
		t.Errorf("status = %d oneOnOne=%v, want 200 with the flag forwarded", rec.Code, fb.gotOneOnOne)
	}
}
