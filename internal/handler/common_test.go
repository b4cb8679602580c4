package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestHealth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Health(c); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("got %d %q, want 200 ok", rec.Code, rec.Body.String())
	}
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	cases := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"uint64", uint64(7), 7, true},
		{"float64 from jwt claims", float64(42), 42, true},
		{"numeric string", "19", 19, true},
		{"garbage string", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, err := getUserID(c)
			if tc.ok && (err != nil || got != tc.want) {
				t.Errorf("getUserID = %d, %v; want %d", got, err, tc.want)
			}
			if !tc.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPageParams(t *testing.T) {
	e := echo.New()
	cases := []struct {
		query    string
		page     int
		size     int
	}{
		{"", 0, 20},
		{"page=2&size=10", 2, 10},
		{"page=-1&size=0", 0, 20},
		{"size=500", 0, 100},
		{"page=abc&size=xyz", 0, 20},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		page, size := pageParams(c)
		if page != tc.page || size != tc.size {
			t.Errorf("query %q: got page=%d size=%d, want page=%d size=%d",
				tc.query, page, size, tc.page, tc.size)
		}
	}
}

func TestParseClock(t *testing.T) {
	got, err := parseClock("22:30")
	if err != nil {
		t.Fatalf("parseClock: %v", err)
	}
	if got.Hour() != 22 || got.Minute() != 30 {
		t.Errorf("got %v, want 22:30", got)
	}
	if _, err := parseClock("25:00"); err == nil {
		t.Error("invalid hour should fail")
	}
	if _, err := parseClock(""); err == nil {
		t.Error("empty clock should fail")
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2026-09-01", time.UTC)
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	want := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := parseDate("01/09/2026", time.UTC); err == nil {
		t.Error("wrong layout should fail")
	}
}
