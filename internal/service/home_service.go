package service

import (
    "context"
    "sort"
    "time"

    "github.com/iliyamo/live-lecture-reservation/internal/model"
    "github.com/iliyamo/live-lecture-reservation/internal/schedule"
)

// ReservationWithLecture joins a reservation to the lecture it reserves
// and the lecture owner's display name, the shape the feed needs without
// further lookups.
type ReservationWithLecture struct {
    Reservation model.Reservation
    Lecture     model.Lecture
    Teacher     string
}

// FeedStore supplies the two occurrence sources of the home feed.  Both
// queries are read-only and may run at a weak isolation level; a feed that
// is briefly stale is acceptable.
type FeedStore interface {
    // LecturesByOwner returns the user's own lectures whose run has not
    // ended before the given date.
    LecturesByOwner(ctx context.Context, userID uint64, date time.Time) ([]model.Lecture, error)
    // ActiveReservations returns the user's reservations whose window has
    // not ended before the given date, joined with their lectures.
    ActiveReservations(ctx context.Context, userID uint64, date time.Time) ([]ReservationWithLecture, error)
    // AllReservations returns every reservation of the user regardless of
    // expiry, used by the history view.
    AllReservations(ctx context.Context, userID uint64) ([]ReservationWithLecture, error)
    // AllLecturesByOwner returns every lecture the user owns.
    AllLecturesByOwner(ctx context.Context, userID uint64) ([]model.Lecture, error)
    // Nickname resolves a user's display name.
    Nickname(ctx context.Context, userID uint64) (string, error)
}

// FeedItem is one row of the home feed or history: a single occurrence
// decorated with lecture details and the viewer's role for it.
type FeedItem struct {
    LectureID       uint64    `json:"lecture_id"`
    Title           string    `json:"title"`
    Content         string    `json:"content"`
    Teacher         string    `json:"teacher"`
    Date            time.Time `json:"date"`
    Day             string    `json:"day"`
    StartsAt        time.Time `json:"starts_at"`
    EndsAt          time.Time `json:"ends_at"`
    MaxParticipants int       `json:"max_participants"`
    IsTeacher       bool      `json:"is_teacher"`
    IsOnAir         bool      `json:"is_on_air"`
}

// HomeService merges teacher-side and student-side occurrences into one
// chronological, paged feed.  It is pure aside from the store reads.
type HomeService struct {
    store FeedStore
    now   func() time.Time
    zone  *time.Location
}

// NewHomeService wires the store, clock and display zone, defaulting the
// clock to time.Now and the zone to UTC.
func NewHomeService(store FeedStore, now func() time.Time, zone *time.Location) *HomeService {
    if now == nil {
        now = time.Now
    }
    if zone == nil {
        zone = time.UTC
    }
    return &HomeService{store: store, now: now, zone: zone}
}

// HomeFeed returns page `page` (zero-based) of the user's upcoming and
// in-progress occurrences: every lecture they teach expanded over its own
// date range, every active reservation expanded over the reserved window
// only.  Items are sorted ascending by occurrence date then start time;
// the sort is stable so same-instant items keep insertion order (teacher
// items first).  A page starting at or past the end yields an empty page,
// not an error.  hasMore reports whether another page follows.
func (s *HomeService) HomeFeed(ctx context.Context, userID uint64, page, size int) ([]FeedItem, bool, error) {
    now := s.now()
    today := dayStart(now, s.zone)

    items, err := s.teacherItems(ctx, userID, today, now)
    if err != nil {
        return nil, false, err
    }
    studentItems, err := s.studentItems(ctx, userID, today, now)
    if err != nil {
        return nil, false, err
    }
    items = append(items, studentItems...)

    sort.SliceStable(items, func(i, j int) bool {
        if !items[i].Date.Equal(items[j].Date) {
            return items[i].Date.Before(items[j].Date)
        }
        return items[i].StartsAt.Before(items[j].StartsAt)
    })

    return paginate(items, page, size)
}

// History returns the user's already-elapsed occurrences, most recent
// first, with the same pagination contract as HomeFeed.  IsOnAir is
// always false here: a finished session cannot be live.
func (s *HomeService) History(ctx context.Context, userID uint64, page, size int) ([]FeedItem, bool, error) {
    now := s.now()

    lectures, err := s.store.AllLecturesByOwner(ctx, userID)
    if err != nil {
        return nil, false, err
    }
    nickname, err := s.store.Nickname(ctx, userID)
    if err != nil {
        return nil, false, err
    }
    var items []FeedItem
    for _, lec := range lectures {
        occs := schedule.ExpandElapsed(lec, lec.StartDate, lec.EndDate, now, s.zone)
        items = append(items, s.decorate(occs, lec, nickname, true)...)
    }

    reservations, err := s.store.AllReservations(ctx, userID)
    if err != nil {
        return nil, false, err
    }
    for _, rw := range reservations {
        occs := schedule.ExpandElapsed(rw.Lecture, rw.Reservation.StartDate, rw.Reservation.EndDate, now, s.zone)
        items = append(items, s.decorate(occs, rw.Lecture, rw.Teacher, false)...)
    }

    sort.SliceStable(items, func(i, j int) bool {
        if !items[i].Date.Equal(items[j].Date) {
            return items[i].Date.After(items[j].Date)
        }
        return items[i].StartsAt.After(items[j].StartsAt)
    })

    return paginate(items, page, size)
}

// teacherItems expands every lecture the user owns over the lecture's own
// date range.
func (s *HomeService) teacherItems(ctx context.Context, userID uint64, today, now time.Time) ([]FeedItem, error) {
    lectures, err := s.store.LecturesByOwner(ctx, userID, today)
    if err != nil {
        return nil, err
    }
    if len(lectures) == 0 {
        return nil, nil
    }
    nickname, err := s.store.Nickname(ctx, userID)
    if err != nil {
        return nil, err
    }
    var items []FeedItem
    for _, lec := range lectures {
        occs := schedule.Expand(lec, lec.StartDate, lec.EndDate, now, s.zone)
        items = append(items, s.decorate(occs, lec, nickname, true)...)
    }
    return items, nil
}

// studentItems expands every active reservation over the reserved window
// rather than the lecture's full range.
func (s *HomeService) studentItems(ctx context.Context, userID uint64, today, now time.Time) ([]FeedItem, error) {
    reservations, err := s.store.ActiveReservations(ctx, userID, today)
    if err != nil {
        return nil, err
    }
    var items []FeedItem
    for _, rw := range reservations {
        occs := schedule.Expand(rw.Lecture, rw.Reservation.StartDate, rw.Reservation.EndDate, now, s.zone)
        items = append(items, s.decorate(occs, rw.Lecture, rw.Teacher, false)...)
    }
    return items, nil
}

// decorate converts raw occurrences into feed rows.
func (s *HomeService) decorate(occs []schedule.Occurrence, lec model.Lecture, teacher string, isTeacher bool) []FeedItem {
    items := make([]FeedItem, 0, len(occs))
    for _, occ := range occs {
        items = append(items, FeedItem{
            LectureID:       lec.ID,
            Title:           lec.Title,
            Content:         lec.Content,
            Teacher:         teacher,
            Date:            occ.Date,
            Day:             occ.Day,
            StartsAt:        occ.StartsAt,
            EndsAt:          occ.EndsAt,
            MaxParticipants: lec.MaxParticipants,
            IsTeacher:       isTeacher,
            IsOnAir:         occ.IsOnAir,
        })
    }
    return items
}

// paginate applies offset/limit paging over the sorted items.
func paginate(items []FeedItem, page, size int) ([]FeedItem, bool, error) {
    if page < 0 || size <= 0 {
        return []FeedItem{}, false, nil
    }
    start := page * size
    if start >= len(items) {
        return []FeedItem{}, false, nil
    }
    end := start + size
    if end > len(items) {
        end = len(items)
    }
    return items[start:end], end < len(items), nil
}
