package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseDate parses a calendar date in YYYY-MM-DD form as midnight in the
// given zone.
func parseDate(s string, zone *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(s), zone)
}

// parseClock parses a daily clock time in HH:MM or HH:MM:SS form.  The
// result carries only a time of day; it is stored UTC-normalized and the
// date part is irrelevant.
func parseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("15:04", s)
}

// pageParams reads the page and size query parameters with defaults.
// Page is zero-based; size is clamped to [1, 100].
func pageParams(c echo.Context) (page, size int) {
	page, size = 0, 20
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page = n
		}
	}
	if v := c.QueryParam("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
