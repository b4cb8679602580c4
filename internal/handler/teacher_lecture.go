package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-lecture-reservation/internal/config"
	"github.com/iliyamo/live-lecture-reservation/internal/model"
	"github.com/iliyamo/live-lecture-reservation/internal/repository"
	"github.com/iliyamo/live-lecture-reservation/internal/schedule"
)

// TeacherHandler bundles the repositories teachers need to manage their
// lectures and inspect who reserved them.
type TeacherHandler struct {
	Cfg          config.Config
	Lectures     *repository.LectureRepo
	Reservations *repository.ReservationRepo
}

func NewTeacherHandler(cfg config.Config, l *repository.LectureRepo, r *repository.ReservationRepo) *TeacherHandler {
	return &TeacherHandler{Cfg: cfg, Lectures: l, Reservations: r}
}

type lectureReq struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	StartDate       string `json:"start_date"` // YYYY-MM-DD
	EndDate         string `json:"end_date"`   // YYYY-MM-DD
	StartTime       string `json:"start_time"` // HH:MM
	EndTime         string `json:"end_time"`   // HH:MM
	AvailableDays   string `json:"available_days"`
	MaxParticipants int    `json:"max_participants"`
}

type lectureResp struct {
	ID              uint64 `json:"id"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	Teacher         uint64 `json:"teacher_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	AvailableDays   string `json:"available_days"`
	MaxParticipants int    `json:"max_participants"`
	IsOnAir         bool   `json:"is_on_air"`
}

func toLectureResp(lec model.Lecture) lectureResp {
	return lectureResp{
		ID:              lec.ID,
		Title:           lec.Title,
		Content:         lec.Content,
		Teacher:         lec.UserID,
		StartDate:       lec.StartDate.Format("2006-01-02"),
		EndDate:         lec.EndDate.Format("2006-01-02"),
		StartTime:       lec.StartTime.Format("15:04"),
		EndTime:         lec.EndTime.Format("15:04"),
		AvailableDays:   lec.AvailableDays,
		MaxParticipants: lec.MaxParticipants,
		IsOnAir:         lec.IsOnAir,
	}
}

// CreateLecture handles POST /v1/teacher/lectures.  A lecture needs a
// non-empty title, a valid date range, at least one recognized weekday
// code and a participant ceiling of at least one.  The daily window may
// cross midnight: an end clock before the start clock means the session
// runs overnight, which is accepted as-is.
func (h *TeacherHandler) CreateLecture(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req lectureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	startDate, err := parseDate(req.StartDate, h.Cfg.Zone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	endDate, err := parseDate(req.EndDate, h.Cfg.Zone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
	}
	if startDate.After(endDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date after end_date"})
	}
	startTime, err := parseClock(req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time"})
	}
	endTime, err := parseClock(req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_time"})
	}
	if !schedule.ValidDays(req.AvailableDays) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_days must contain at least one of MON..SUN"})
	}
	if req.MaxParticipants < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_participants must be at least 1"})
	}

	lec := model.Lecture{
		UserID:          userID,
		Title:           req.Title,
		Content:         req.Content,
		StartDate:       startDate,
		EndDate:         endDate,
		StartTime:       startTime,
		EndTime:         endTime,
		AvailableDays:   strings.ToUpper(strings.ReplaceAll(req.AvailableDays, " ", "")),
		MaxParticipants: req.MaxParticipants,
	}
	if err := h.Lectures.Create(c.Request().Context(), &lec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lecture failed"})
	}
	return c.JSON(http.StatusCreated, toLectureResp(lec))
}

// ListLectures handles GET /v1/teacher/lectures.
func (h *TeacherHandler) ListLectures(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	lectures, err := h.Lectures.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lectures failed"})
	}
	items := make([]lectureResp, 0, len(lectures))
	for _, lec := range lectures {
		items = append(items, toLectureResp(lec))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetLecture handles GET /v1/teacher/lectures/:id.
func (h *TeacherHandler) GetLecture(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lecture id"})
	}
	lec, err := h.Lectures.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lecture not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lecture failed"})
	}
	if lec.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toLectureResp(lec))
}

// SetOnAir handles PATCH /v1/teacher/lectures/:id/on-air.  The teacher's
// signaling layer calls this when the live session starts or ends; the
// flag then surfaces on today's occurrence in every participant's feed.
func (h *TeacherHandler) SetOnAir(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lecture id"})
	}
	var req struct {
		OnAir bool `json:"on_air"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err = h.Lectures.SetOnAir(c.Request().Context(), id, userID, req.OnAir)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lecture not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_on_air": req.OnAir})
}

// DeleteLecture handles DELETE /v1/teacher/lectures/:id.  A lecture with
// unexpired reservations cannot be removed.
func (h *TeacherHandler) DeleteLecture(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lecture id"})
	}
	err = h.Lectures.Delete(c.Request().Context(), id, userID, time.Now().UTC())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lecture not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "lecture has active reservations"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListLectureReservations handles GET /v1/teacher/lectures/:id/reservations.
func (h *TeacherHandler) ListLectureReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lecture id"})
	}
	reservations, err := h.Reservations.ListByLectureForOwner(c.Request().Context(), id, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lecture not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservations failed"})
	}
	type item struct {
		ID        uint64 `json:"id"`
		UserID    uint64 `json:"user_id"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	items := make([]item, 0, len(reservations))
	for _, r := range reservations {
		items = append(items, item{
			ID:        r.ID,
			UserID:    r.UserID,
			StartDate: r.StartDate.Format("2006-01-02"),
			EndDate:   r.EndDate.Format("2006-01-02"),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
