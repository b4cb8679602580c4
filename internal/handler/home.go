package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-lecture-reservation/internal/service"
)

// HomeHandler serves the merged occurrence feed and its historical
// counterpart.
type HomeHandler struct {
	Feed *service.HomeService
}

func NewHomeHandler(feed *service.HomeService) *HomeHandler {
	return &HomeHandler{Feed: feed}
}

// Home handles GET /v1/home.  It merges the caller's taught lectures and
// active reservations into one chronological page of occurrences.  Page
// and size come from query parameters; a page past the end yields an
// empty items array, not an error.
func (h *HomeHandler) Home(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, size := pageParams(c)
	items, hasMore, err := h.Feed.HomeFeed(c.Request().Context(), userID, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load feed failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":    items,
		"page":     page,
		"size":     size,
		"has_more": hasMore,
	})
}

// History handles GET /v1/home/history: the occurrences that have already
// elapsed, most recent first.
func (h *HomeHandler) History(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, size := pageParams(c)
	items, hasMore, err := h.Feed.History(c.Request().Context(), userID, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load history failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":    items,
		"page":     page,
		"size":     size,
		"has_more": hasMore,
	})
}
