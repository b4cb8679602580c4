package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/live-lecture-reservation/internal/model"
)

// ReservationRepo provides read access to reservations for listing
// endpoints.  Mutations (create, delete) go through the booking store so
// they always run inside the booking transaction; this repository only
// serves display queries where stale reads are tolerable.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationDetail joins a reservation with its lecture and the
// teacher's display name for listing to students.
type ReservationDetail struct {
    ID              uint64    `json:"id"`
    LectureID       uint64    `json:"lecture_id"`
    LectureTitle    string    `json:"lecture_title"`
    Teacher         string    `json:"teacher"`
    StartDate       time.Time `json:"start_date"`
    EndDate         time.Time `json:"end_date"`
    StartTime       time.Time `json:"start_time"`
    EndTime         time.Time `json:"end_time"`
    AvailableDays   string    `json:"available_days"`
    MaxParticipants int       `json:"max_participants"`
    IsOnAir         bool      `json:"is_on_air"`
    CreatedAt       time.Time `json:"created_at"`
}

// ListByUser returns all reservations of a student together with lecture
// details, newest first.  When no reservations exist an empty slice is
// returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
    const q = `SELECT rv.id, rv.lecture_id, l.title, u.nickname,
                      rv.start_date, rv.end_date, l.start_time, l.end_time,
                      l.available_days, l.max_participants, l.is_on_air, rv.created_at
               FROM reservations rv
               JOIN live_lectures l ON l.id = rv.lecture_id
               JOIN users u ON u.id = l.user_id
               WHERE rv.user_id = ?
               ORDER BY rv.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]ReservationDetail, 0)
    for rows.Next() {
        var d ReservationDetail
        if err := rows.Scan(
            &d.ID, &d.LectureID, &d.LectureTitle, &d.Teacher,
            &d.StartDate, &d.EndDate, &d.StartTime, &d.EndTime,
            &d.AvailableDays, &d.MaxParticipants, &d.IsOnAir, &d.CreatedAt,
        ); err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// ListByLectureForOwner returns all reservations on one of the teacher's
// lectures.  It verifies ownership first: a lecture owned by someone else
// yields ErrForbidden and a missing lecture ErrNotFound.
func (r *ReservationRepo) ListByLectureForOwner(ctx context.Context, lectureID, ownerID uint64) ([]model.Reservation, error) {
    var actualOwner uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT user_id FROM live_lectures WHERE id = ?`, lectureID).Scan(&actualOwner)
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if actualOwner != ownerID {
        return nil, ErrForbidden
    }
    const q = `SELECT id, user_id, lecture_id, start_date, end_date, created_at
               FROM reservations WHERE lecture_id = ? ORDER BY created_at`
    rows, err := r.db.QueryContext(ctx, q, lectureID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        var res model.Reservation
        if err := rows.Scan(&res.ID, &res.UserID, &res.LectureID,
            &res.StartDate, &res.EndDate, &res.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
