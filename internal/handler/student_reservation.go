package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-lecture-reservation/internal/config"
	"github.com/iliyamo/live-lecture-reservation/internal/queue"
	"github.com/iliyamo/live-lecture-reservation/internal/repository"
	"github.com/iliyamo/live-lecture-reservation/internal/schedule"
	"github.com/iliyamo/live-lecture-reservation/internal/service"
)

// StudentHandler bundles what students need: the booking workflow, their
// reservation listing and enough lookups to describe a confirmed booking
// on the event queue.
type StudentHandler struct {
	Cfg          config.Config
	Bookings     *service.ReservationService
	Reservations *repository.ReservationRepo
	Lectures     *repository.LectureRepo
	Users        *repository.UserRepo
}

func NewStudentHandler(cfg config.Config, b *service.ReservationService, r *repository.ReservationRepo, l *repository.LectureRepo, u *repository.UserRepo) *StudentHandler {
	return &StudentHandler{Cfg: cfg, Bookings: b, Reservations: r, Lectures: l, Users: u}
}

type bookReq struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, inclusive
}

// Book handles POST /v1/lectures/:id/reservations.  The student picks a
// date window inside the lecture's run; the service enforces the
// capacity gate and the schedule-conflict check inside one transaction.
// On success a confirmation event is published asynchronously so a
// broker outage never fails the booking itself.
func (h *StudentHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	lectureID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || lectureID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lecture id"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, err := parseDate(req.StartDate, h.Cfg.Zone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	end, err := parseDate(req.EndDate, h.Cfg.Zone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
	}

	res, err := h.Bookings.Book(c.Request().Context(), userID, lectureID,
		schedule.DateRange{Start: start, End: end})
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lecture not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot reserve own lecture"})
	case errors.Is(err, service.ErrInvalidWindow):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "window outside lecture date range"})
	case errors.Is(err, service.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": "lecture is full"})
	case errors.Is(err, service.ErrScheduleConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicts with an existing reservation"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	go h.publishConfirmed(res.ID, userID, lectureID, res.StartDate, res.EndDate)

	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id": res.ID,
		"lecture_id":     lectureID,
		"start_date":     res.StartDate.Format("2006-01-02"),
		"end_date":       res.EndDate.Format("2006-01-02"),
	})
}

// publishConfirmed assembles and publishes the confirmation event.  It
// runs outside the request; failures are logged by the queue package and
// otherwise ignored.
func (h *StudentHandler) publishConfirmed(resID, userID, lectureID uint64, start, end time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.ReservationConfirmedEvent{
		EventID:       queue.NewEventID(),
		ReservationID: resID,
		UserID:        userID,
		LectureID:     lectureID,
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if lec, err := h.Lectures.GetByID(ctx, lectureID); err == nil {
		ev.LectureTitle = lec.Title
		if owner, err := h.Users.GetByID(ctx, lec.UserID); err == nil {
			ev.Teacher = owner.Nickname
		}
	}
	_ = queue.PublishReservationConfirmed(ctx, ev)
}

// ListReservations handles GET /v1/my-reservations.  When no reservations
// exist it returns an empty array.
func (h *StudentHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// Cancel handles DELETE /v1/reservations/:id.  Only the owner may cancel
// and only before the reserved window starts.
func (h *StudentHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	err = h.Bookings.Cancel(c.Request().Context(), userID, resID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot cancel this reservation"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
