// Package store contains the MySQL implementations of the service layer's
// store interfaces.  The plain repositories in internal/repository serve
// display reads; this package owns the transactional units of work the
// workflows need.
package store

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/live-lecture-reservation/internal/model"
    "github.com/iliyamo/live-lecture-reservation/internal/schedule"
    "github.com/iliyamo/live-lecture-reservation/internal/service"
)

// BookingStore opens booking units of work against MySQL.  Each unit runs
// in a REPEATABLE READ transaction; the lecture row is additionally
// locked with SELECT ... FOR UPDATE so concurrent bookings of the same
// lecture serialize on the capacity check.  Read-only listing endpoints
// do not use this store and keep their default, non-blocking isolation.
type BookingStore struct {
    db *sql.DB
}

// NewBookingStore returns a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// InTx runs fn inside one transaction.  Any error from fn rolls the whole
// unit back, so a failed booking commits nothing.
func (s *BookingStore) InTx(ctx context.Context, fn func(tx service.BookingTx) error) error {
    tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&bookingTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// bookingTx adapts one *sql.Tx to the service.BookingTx contract.
type bookingTx struct {
    tx *sql.Tx
}

func (b *bookingTx) UserByID(ctx context.Context, id uint64) (model.User, error) {
    var u model.User
    err := b.tx.QueryRowContext(ctx,
        `SELECT id, email, password_hash, nickname, role, is_active, created_at, updated_at
         FROM users WHERE id = ?`, id).
        Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Nickname, &u.Role,
            &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.User{}, service.ErrNotFound
    }
    return u, err
}

// LectureForBooking loads the lecture and takes a row lock on it.  The
// lock is what makes "count occupancy, then insert" safe: a second
// booking for the same lecture blocks here until the first commits and
// then observes the incremented occupancy.
func (b *bookingTx) LectureForBooking(ctx context.Context, id uint64) (model.Lecture, error) {
    var lec model.Lecture
    err := b.tx.QueryRowContext(ctx,
        `SELECT id, user_id, title, content, start_date, end_date,
                start_time, end_time, available_days, max_participants, is_on_air,
                created_at, updated_at
         FROM live_lectures WHERE id = ? FOR UPDATE`, id).
        Scan(&lec.ID, &lec.UserID, &lec.Title, &lec.Content,
            &lec.StartDate, &lec.EndDate, &lec.StartTime, &lec.EndTime,
            &lec.AvailableDays, &lec.MaxParticipants, &lec.IsOnAir,
            &lec.CreatedAt, &lec.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Lecture{}, service.ErrNotFound
    }
    return lec, err
}

func (b *bookingTx) CountActiveParticipants(ctx context.Context, lectureID uint64, now time.Time) (int, error) {
    var n int
    err := b.tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE lecture_id = ? AND end_date >= ?`,
        lectureID, now).Scan(&n)
    return n, err
}

func (b *bookingTx) BookingsByUser(ctx context.Context, userID uint64) ([]schedule.Booking, error) {
    const q = `SELECT rv.start_date, rv.end_date,
                      l.id, l.user_id, l.start_time, l.end_time, l.available_days
               FROM reservations rv
               JOIN live_lectures l ON l.id = rv.lecture_id
               WHERE rv.user_id = ?`
    rows, err := b.tx.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    bookings := make([]schedule.Booking, 0)
    for rows.Next() {
        var bk schedule.Booking
        if err := rows.Scan(&bk.Range.Start, &bk.Range.End,
            &bk.Lecture.ID, &bk.Lecture.UserID,
            &bk.Lecture.StartTime, &bk.Lecture.EndTime,
            &bk.Lecture.AvailableDays); err != nil {
            return nil, err
        }
        bookings = append(bookings, bk)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return bookings, nil
}

func (b *bookingTx) CreateReservation(ctx context.Context, res *model.Reservation) error {
    result, err := b.tx.ExecContext(ctx,
        `INSERT INTO reservations (user_id, lecture_id, start_date, end_date) VALUES (?,?,?,?)`,
        res.UserID, res.LectureID, res.StartDate, res.EndDate)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    return nil
}

func (b *bookingTx) ReservationByID(ctx context.Context, id uint64) (model.Reservation, error) {
    var res model.Reservation
    err := b.tx.QueryRowContext(ctx,
        `SELECT id, user_id, lecture_id, start_date, end_date, created_at
         FROM reservations WHERE id = ?`, id).
        Scan(&res.ID, &res.UserID, &res.LectureID,
            &res.StartDate, &res.EndDate, &res.CreatedAt)
    if err == sql.ErrNoRows {
        return model.Reservation{}, service.ErrNotFound
    }
    return res, err
}

func (b *bookingTx) DeleteReservation(ctx context.Context, id uint64) error {
    _, err := b.tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
    return err
}
