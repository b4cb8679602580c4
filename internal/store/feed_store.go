package store

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/live-lecture-reservation/internal/model"
    "github.com/iliyamo/live-lecture-reservation/internal/service"
)

// FeedStore serves the home feed and history queries.  All reads run
// outside any explicit transaction: a briefly stale feed is acceptable
// and keeps these queries non-blocking.
type FeedStore struct {
    db *sql.DB
}

// NewFeedStore returns a FeedStore bound to the given database.
func NewFeedStore(db *sql.DB) *FeedStore { return &FeedStore{db: db} }

const feedLectureColumns = `l.id, l.user_id, l.title, l.content,
        l.start_date, l.end_date, l.start_time, l.end_time,
        l.available_days, l.max_participants, l.is_on_air,
        l.created_at, l.updated_at`

func (s *FeedStore) LecturesByOwner(ctx context.Context, userID uint64, date time.Time) ([]model.Lecture, error) {
    q := `SELECT ` + feedLectureColumns + ` FROM live_lectures l
          WHERE l.user_id = ? AND l.end_date >= ?`
    return s.queryLectures(ctx, q, userID, date)
}

func (s *FeedStore) AllLecturesByOwner(ctx context.Context, userID uint64) ([]model.Lecture, error) {
    q := `SELECT ` + feedLectureColumns + ` FROM live_lectures l WHERE l.user_id = ?`
    return s.queryLectures(ctx, q, userID)
}

func (s *FeedStore) ActiveReservations(ctx context.Context, userID uint64, date time.Time) ([]service.ReservationWithLecture, error) {
    q := `SELECT rv.id, rv.user_id, rv.lecture_id, rv.start_date, rv.end_date, rv.created_at,
                 ` + feedLectureColumns + `, u.nickname
          FROM reservations rv
          JOIN live_lectures l ON l.id = rv.lecture_id
          JOIN users u ON u.id = l.user_id
          WHERE rv.user_id = ? AND rv.end_date >= ?`
    return s.queryReservations(ctx, q, userID, date)
}

func (s *FeedStore) AllReservations(ctx context.Context, userID uint64) ([]service.ReservationWithLecture, error) {
    q := `SELECT rv.id, rv.user_id, rv.lecture_id, rv.start_date, rv.end_date, rv.created_at,
                 ` + feedLectureColumns + `, u.nickname
          FROM reservations rv
          JOIN live_lectures l ON l.id = rv.lecture_id
          JOIN users u ON u.id = l.user_id
          WHERE rv.user_id = ?`
    return s.queryReservations(ctx, q, userID)
}

func (s *FeedStore) Nickname(ctx context.Context, userID uint64) (string, error) {
    var nickname string
    err := s.db.QueryRowContext(ctx,
        `SELECT nickname FROM users WHERE id = ?`, userID).Scan(&nickname)
    if err == sql.ErrNoRows {
        return "", service.ErrNotFound
    }
    return nickname, err
}

func (s *FeedStore) queryLectures(ctx context.Context, q string, args ...interface{}) ([]model.Lecture, error) {
    rows, err := s.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    lectures := make([]model.Lecture, 0)
    for rows.Next() {
        var lec model.Lecture
        if err := rows.Scan(&lec.ID, &lec.UserID, &lec.Title, &lec.Content,
            &lec.StartDate, &lec.EndDate, &lec.StartTime, &lec.EndTime,
            &lec.AvailableDays, &lec.MaxParticipants, &lec.IsOnAir,
            &lec.CreatedAt, &lec.UpdatedAt); err != nil {
            return nil, err
        }
        lectures = append(lectures, lec)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return lectures, nil
}

func (s *FeedStore) queryReservations(ctx context.Context, q string, args ...interface{}) ([]service.ReservationWithLecture, error) {
    rows, err := s.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]service.ReservationWithLecture, 0)
    for rows.Next() {
        var rw service.ReservationWithLecture
        if err := rows.Scan(
            &rw.Reservation.ID, &rw.Reservation.UserID, &rw.Reservation.LectureID,
            &rw.Reservation.StartDate, &rw.Reservation.EndDate, &rw.Reservation.CreatedAt,
            &rw.Lecture.ID, &rw.Lecture.UserID, &rw.Lecture.Title, &rw.Lecture.Content,
            &rw.Lecture.StartDate, &rw.Lecture.EndDate, &rw.Lecture.StartTime, &rw.Lecture.EndTime,
            &rw.Lecture.AvailableDays, &rw.Lecture.MaxParticipants, &rw.Lecture.IsOnAir,
            &rw.Lecture.CreatedAt, &rw.Lecture.UpdatedAt,
            &rw.Teacher,
        ); err != nil {
            return nil, err
        }
        out = append(out, rw)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
