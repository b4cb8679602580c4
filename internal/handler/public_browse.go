package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-lecture-reservation/internal/config"
	"github.com/iliyamo/live-lecture-reservation/internal/model"
)

// LectureBrowser is the read surface the public endpoints need.
// *repository.LectureRepo satisfies it.
type LectureBrowser interface {
	ListAvailable(ctx context.Context, now time.Time, oneOnOne bool) ([]model.Lecture, error)
	ListAvailableByTeacher(ctx context.Context, teacherID uint64, now time.Time, oneOnOne bool) ([]model.Lecture, error)
	Search(ctx context.Context, keyword string, now time.Time) ([]model.Lecture, error)
}

// PublicHandler exposes the unauthenticated browse surface: lectures that
// are still running and have free slots, plus a title search and a
// per-teacher listing.
type PublicHandler struct {
	Cfg      config.Config
	Lectures LectureBrowser
}

func NewPublicHandler(cfg config.Config, l LectureBrowser) *PublicHandler {
	return &PublicHandler{Cfg: cfg, Lectures: l}
}

// BrowseLectures handles GET /v1/lectures.  The one_on_one query flag
// switches between single-student and group lectures; both modes only
// return lectures with at least one free slot right now.
func (h *PublicHandler) BrowseLectures(c echo.Context) error {
	oneOnOne := c.QueryParam("one_on_one") == "true"
	lectures, err := h.Lectures.ListAvailable(c.Request().Context(), time.Now().UTC(), oneOnOne)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lectures failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toLectureList(lectures)})
}

// BrowseTeacherLectures handles GET /v1/teachers/:id/lectures: the open
// lectures of one teacher, with the same one_on_one switch as the global
// browse.  An unknown teacher simply yields an empty list.
func (h *PublicHandler) BrowseTeacherLectures(c echo.Context) error {
	teacherID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || teacherID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid teacher id"})
	}
	oneOnOne := c.QueryParam("one_on_one") == "true"
	lectures, err := h.Lectures.ListAvailableByTeacher(c.Request().Context(), teacherID, time.Now().UTC(), oneOnOne)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lectures failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toLectureList(lectures)})
}

// SearchLectures handles GET /v1/lectures/search?q=keyword.  An empty
// keyword yields an empty result set.
func (h *PublicHandler) SearchLectures(c echo.Context) error {
	keyword := c.QueryParam("q")
	lectures, err := h.Lectures.Search(c.Request().Context(), keyword, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toLectureList(lectures)})
}

func toLectureList(lectures []model.Lecture) []lectureResp {
	items := make([]lectureResp, 0, len(lectures))
	for _, lec := range lectures {
		items = append(items, toLectureResp(lec))
	}
	return items
}
