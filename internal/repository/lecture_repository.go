package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/live-lecture-reservation/internal/model"
)

// lectureColumns is the column list scanned into model.Lecture.  Dates and
// clock times are stored in UTC (the DSN uses loc=UTC) and re-interpreted
// against the display zone by the schedule layer.
const lectureColumns = `id, user_id, title, content, start_date, end_date,
        start_time, end_time, available_days, max_participants, is_on_air,
        created_at, updated_at`

// LectureRepo provides CRUD operations for live lectures.  Occupancy
// queries live here as well because the capacity gate is a property of
// the lecture, not of any single reservation.
type LectureRepo struct {
    db *sql.DB
}

// NewLectureRepo returns a new LectureRepo bound to the given database.
func NewLectureRepo(db *sql.DB) *LectureRepo { return &LectureRepo{db: db} }

// Create inserts a lecture and populates its generated ID.
func (r *LectureRepo) Create(ctx context.Context, lec *model.Lecture) error {
    const q = `INSERT INTO live_lectures
        (user_id, title, content, start_date, end_date, start_time, end_time,
         available_days, max_participants, is_on_air)
        VALUES (?,?,?,?,?,?,?,?,?,?)`
    res, err := r.db.ExecContext(ctx, q,
        lec.UserID, lec.Title, lec.Content, lec.StartDate, lec.EndDate,
        lec.StartTime, lec.EndTime, lec.AvailableDays, lec.MaxParticipants, lec.IsOnAir)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    lec.ID = uint64(id)
    return nil
}

// GetByID returns a single lecture or ErrNotFound.
func (r *LectureRepo) GetByID(ctx context.Context, id uint64) (model.Lecture, error) {
    const q = `SELECT ` + lectureColumns + ` FROM live_lectures WHERE id = ?`
    lec, err := scanLecture(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return model.Lecture{}, ErrNotFound
    }
    return lec, err
}

// ListByOwner returns all lectures owned by the teacher, newest first.
func (r *LectureRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Lecture, error) {
    const q = `SELECT ` + lectureColumns + ` FROM live_lectures
               WHERE user_id = ? ORDER BY created_at DESC`
    return r.queryLectures(ctx, q, ownerID)
}

// ListAvailable returns lectures that are still running and have at least
// one free slot at the reference instant.  When oneOnOne is true only
// single-student lectures (max_participants = 1) are returned, otherwise
// only group lectures; this mirrors the two browse modes of the client.
// The occupancy filter is recomputed per call rather than cached: browse
// results may be momentarily stale but never show a full lecture as open
// beyond one request.
func (r *LectureRepo) ListAvailable(ctx context.Context, now time.Time, oneOnOne bool) ([]model.Lecture, error) {
    cmp := "> 1"
    if oneOnOne {
        cmp = "= 1"
    }
    q := `SELECT ` + lectureColumns + ` FROM live_lectures l
          WHERE l.end_date >= ? AND l.max_participants ` + cmp + `
            AND (SELECT COUNT(*) FROM reservations rv
                 WHERE rv.lecture_id = l.id AND rv.end_date >= ?) < l.max_participants
          ORDER BY l.start_date, l.start_time`
    return r.queryLectures(ctx, q, now, now)
}

// ListAvailableByTeacher narrows ListAvailable to one teacher's lectures.
// The occupancy and one-on-one filters apply unchanged, so guests can
// browse what a particular teacher still has open.
func (r *LectureRepo) ListAvailableByTeacher(ctx context.Context, teacherID uint64, now time.Time, oneOnOne bool) ([]model.Lecture, error) {
    cmp := "> 1"
    if oneOnOne {
        cmp = "= 1"
    }
    q := `SELECT ` + lectureColumns + ` FROM live_lectures l
          WHERE l.user_id = ? AND l.end_date >= ? AND l.max_participants ` + cmp + `
            AND (SELECT COUNT(*) FROM reservations rv
                 WHERE rv.lecture_id = l.id AND rv.end_date >= ?) < l.max_participants
          ORDER BY l.start_date, l.start_time`
    return r.queryLectures(ctx, q, teacherID, now, now)
}

// Search returns running lectures whose title contains the keyword,
// case-insensitively.  An empty keyword returns nothing rather than the
// whole table.
func (r *LectureRepo) Search(ctx context.Context, keyword string, now time.Time) ([]model.Lecture, error) {
    keyword = strings.TrimSpace(keyword)
    if keyword == "" {
        return []model.Lecture{}, nil
    }
    const q = `SELECT ` + lectureColumns + ` FROM live_lectures
               WHERE end_date >= ? AND title LIKE ?
               ORDER BY start_date, start_time`
    return r.queryLectures(ctx, q, now, "%"+keyword+"%")
}

// SetOnAir flips the lecture's live flag.  Only the owner may toggle it;
// a non-owner caller gets ErrForbidden and a missing lecture ErrNotFound.
func (r *LectureRepo) SetOnAir(ctx context.Context, lectureID, ownerID uint64, onAir bool) error {
    var actualOwner uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT user_id FROM live_lectures WHERE id = ?`, lectureID).Scan(&actualOwner)
    if err == sql.ErrNoRows {
        return ErrNotFound
    }
    if err != nil {
        return err
    }
    if actualOwner != ownerID {
        return ErrForbidden
    }
    _, err = r.db.ExecContext(ctx,
        `UPDATE live_lectures SET is_on_air = ? WHERE id = ?`, onAir, lectureID)
    return err
}

// Delete removes a lecture owned by the caller.  Lectures that still have
// unexpired reservations cannot be deleted and yield ErrConflict.
func (r *LectureRepo) Delete(ctx context.Context, lectureID, ownerID uint64, now time.Time) error {
    var actualOwner uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT user_id FROM live_lectures WHERE id = ?`, lectureID).Scan(&actualOwner)
    if err == sql.ErrNoRows {
        return ErrNotFound
    }
    if err != nil {
        return err
    }
    if actualOwner != ownerID {
        return ErrForbidden
    }
    var active int
    err = r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE lecture_id = ? AND end_date >= ?`,
        lectureID, now).Scan(&active)
    if err != nil {
        return err
    }
    if active > 0 {
        return ErrConflict
    }
    _, err = r.db.ExecContext(ctx, `DELETE FROM live_lectures WHERE id = ?`, lectureID)
    return err
}

// queryLectures runs a multi-row lecture query and scans the results.
func (r *LectureRepo) queryLectures(ctx context.Context, q string, args ...interface{}) ([]model.Lecture, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    lectures := make([]model.Lecture, 0)
    for rows.Next() {
        lec, err := scanLecture(rows)
        if err != nil {
            return nil, err
        }
        lectures = append(lectures, lec)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return lectures, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...interface{}) error }

func scanLecture(row rowScanner) (model.Lecture, error) {
    var lec model.Lecture
    err := row.Scan(
        &lec.ID, &lec.UserID, &lec.Title, &lec.Content,
        &lec.StartDate, &lec.EndDate, &lec.StartTime, &lec.EndTime,
        &lec.AvailableDays, &lec.MaxParticipants, &lec.IsOnAir,
        &lec.CreatedAt, &lec.UpdatedAt,
    )
    return lec, err
}
