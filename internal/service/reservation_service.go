package service

import (
    "context"
    "time"

    "github.com/iliyamo/live-lecture-reservation/internal/model"
    "github.com/iliyamo/live-lecture-reservation/internal/schedule"
)

// BookingTx is the store view available inside one booking unit of work.
// Implementations must make all methods observe the same transactional
// snapshot; LectureForBooking additionally locks the lecture row so two
// concurrent bookings for the same lecture serialize on the capacity
// check instead of both reading the pre-increment occupancy.
// Store implementations report a missing row as ErrNotFound directly.
type BookingTx interface {
    UserByID(ctx context.Context, id uint64) (model.User, error)
    LectureForBooking(ctx context.Context, id uint64) (model.Lecture, error)
    CountActiveParticipants(ctx context.Context, lectureID uint64, now time.Time) (int, error)
    BookingsByUser(ctx context.Context, userID uint64) ([]schedule.Booking, error)
    CreateReservation(ctx context.Context, res *model.Reservation) error
    ReservationByID(ctx context.Context, id uint64) (model.Reservation, error)
    DeleteReservation(ctx context.Context, id uint64) error
}

// BookingStore opens booking units of work.  The MySQL implementation
// begins a REPEATABLE READ transaction and commits when fn returns nil;
// any error rolls the whole unit back so no partial state is committed.
type BookingStore interface {
    InTx(ctx context.Context, fn func(tx BookingTx) error) error
}

// ReservationService runs the booking workflow: resolve, self-booking
// check, capacity gate, conflict detection, persist.  All five steps
// execute inside a single store transaction.
type ReservationService struct {
    store BookingStore
    now   func() time.Time
    zone  *time.Location
}

// NewReservationService wires the store, clock and display zone.  A nil
// clock defaults to time.Now so production callers only pass the store.
func NewReservationService(store BookingStore, now func() time.Time, zone *time.Location) *ReservationService {
    if now == nil {
        now = time.Now
    }
    if zone == nil {
        zone = time.UTC
    }
    return &ReservationService{store: store, now: now, zone: zone}
}

// Book reserves the lecture for the user over the requested date window.
// Failure modes, in check order: ErrNotFound (user or lecture missing),
// ErrForbidden (booking one's own lecture), ErrInvalidWindow (window
// empty or outside the lecture's run), ErrCapacityExceeded (occupancy at
// the ceiling) and ErrScheduleConflict (overlap with an existing
// reservation).  On success the persisted reservation is returned.
func (s *ReservationService) Book(ctx context.Context, userID, lectureID uint64, window schedule.DateRange) (model.Reservation, error) {
    var created model.Reservation
    now := s.now()

    err := s.store.InTx(ctx, func(tx BookingTx) error {
        if _, err := tx.UserByID(ctx, userID); err != nil {
            return err
        }
        lec, err := tx.LectureForBooking(ctx, lectureID)
        if err != nil {
            return err
        }
        if lec.UserID == userID {
            return ErrForbidden
        }
        if window.Start.After(window.End) ||
            window.Start.Before(dayStart(lec.StartDate, s.zone)) ||
            window.End.After(dayStart(lec.EndDate, s.zone)) {
            return ErrInvalidWindow
        }

        occupancy, err := tx.CountActiveParticipants(ctx, lectureID, now)
        if err != nil {
            return err
        }
        if occupancy >= lec.MaxParticipants {
            return ErrCapacityExceeded
        }

        existing, err := tx.BookingsByUser(ctx, userID)
        if err != nil {
            return err
        }
        candidate := schedule.Booking{Range: window, Lecture: lec}
        if schedule.Conflicts(candidate, existing) {
            return ErrScheduleConflict
        }

        created = model.Reservation{
            UserID:    userID,
            LectureID: lectureID,
            StartDate: window.Start,
            EndDate:   window.End,
        }
        return tx.CreateReservation(ctx, &created)
    })
    if err != nil {
        return model.Reservation{}, err
    }
    return created, nil
}

// Cancel removes one of the user's reservations.  Only the reservation's
// owner may cancel, and only while the reserved window has not started
// yet; a window already underway returns ErrForbidden.
func (s *ReservationService) Cancel(ctx context.Context, userID, reservationID uint64) error {
    now := s.now()
    return s.store.InTx(ctx, func(tx BookingTx) error {
        res, err := tx.ReservationByID(ctx, reservationID)
        if err != nil {
            return err
        }
        if res.UserID != userID {
            return ErrForbidden
        }
        if !dayStart(res.StartDate, s.zone).After(now) {
            return ErrForbidden
        }
        return tx.DeleteReservation(ctx, reservationID)
    })
}

// dayStart normalizes a stored date to midnight in the display zone.
func dayStart(d time.Time, zone *time.Location) time.Time {
    y, m, day := d.In(zone).Date()
    return time.Date(y, m, day, 0, 0, 0, 0, zone)
}
