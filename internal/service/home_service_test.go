package service

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/live-lecture-reservation/internal/model"
)

type fakeFeedStore struct {
	lectures     []model.Lecture            // owned by the viewer
	reservations []ReservationWithLecture   // made by the viewer
	nicknames    map[uint64]string
}

func (s *fakeFeedStore) LecturesByOwner(_ context.Context, userID uint64, date time.Time) ([]model.Lecture, error) {
	var out []model.Lecture
	for _, lec := range s.lectures {
		if lec.UserID == userID && !lec.EndDate.Before(date) {
			out = append(out, lec)
		}
	}
	return out, nil
}

func (s *fakeFeedStore) AllLecturesByOwner(_ context.Context, userID uint64) ([]model.Lecture, error) {
	var out []model.Lecture
	for _, lec := range s.lectures {
		if lec.UserID == userID {
			out = append(out, lec)
		}
	}
	return out, nil
}

func (s *fakeFeedStore) ActiveReservations(_ context.Context, userID uint64, date time.Time) ([]ReservationWithLecture, error) {
	var out []ReservationWithLecture
	for _, rw := range s.reservations {
		if rw.Reservation.UserID == userID && !rw.Reservation.EndDate.Before(date) {
			out = append(out, rw)
		}
	}
	return out, nil
}

func (s *fakeFeedStore) AllReservations(_ context.Context, userID uint64) ([]ReservationWithLecture, error) {
	var out []ReservationWithLecture
	for _, rw := range s.reservations {
		if rw.Reservation.UserID == userID {
			out = append(out, rw)
		}
	}
	return out, nil
}

func (s *fakeFeedStore) Nickname(_ context.Context, userID uint64) (string, error) {
	name, ok := s.nicknames[userID]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

// fixture: viewer 1 teaches lecture 100 on Mondays Sep 7-21 2026 and has
// reserved Sep 8-15 of lecture 200, which runs Tuesdays all September.
// The merged feed therefore holds five occurrences:
// Sep 7 (T), 8 (S), 14 (T), 15 (S), 21 (T).
func newFeedFixture(now time.Time) *HomeService {
	taught := model.Lecture{
		ID: 100, UserID: 1, Title: "own lecture",
		StartDate: day(2026, time.September, 7), EndDate: day(2026, time.September, 21),
		StartTime: hm(10, 0), EndTime: hm(11, 0),
		AvailableDays:   "MON",
		MaxParticipants: 5,
	}
	reserved := model.Lecture{
		ID: 200, UserID: 2, Title: "reserved lecture",
		StartDate: day(2026, time.September, 1), EndDate: day(2026, time.September, 30),
		StartTime: hm(9, 0), EndTime: hm(10, 0),
		AvailableDays:   "TUE",
		MaxParticipants: 5,
	}
	st := &fakeFeedStore{
		lectures: []model.Lecture{taught},
		reservations: []ReservationWithLecture{{
			Reservation: model.Reservation{
				ID: 1, UserID: 1, LectureID: 200,
				StartDate: day(2026, time.September, 8), EndDate: day(2026, time.September, 15),
			},
			Lecture: reserved,
			Teacher: "mina",
		}},
		nicknames: map[uint64]string{1: "june", 2: "mina"},
	}
	return NewHomeService(st, func() time.Time { return now }, time.UTC)
}

func TestHomeFeedMergesAndSorts(t *testing.T) {
	svc := newFeedFixture(day(2026, time.August, 26))
	items, hasMore, err := svc.HomeFeed(context.Background(), 1, 0, 50)
	if err != nil {
		t.Fatalf("HomeFeed: %v", err)
	}
	if hasMore {
		t.Error("one page of 50 should hold everything")
	}
	wantDates := []time.Time{
		day(2026, time.September, 7),
		day(2026, time.September, 8),
		day(2026, time.September, 14),
		day(2026, time.September, 15),
		day(2026, time.September, 21),
	}
	wantTeacher := []bool{true, false, true, false, true}
	if len(items) != len(wantDates) {
		t.Fatalf("got %d items, want %d", len(items), len(wantDates))
	}
	for i, item := range items {
		if !item.Date.Equal(wantDates[i]) {
			t.Errorf("item %d date = %v, want %v", i, item.Date, wantDates[i])
		}
		if item.IsTeacher != wantTeacher[i] {
			t.Errorf("item %d IsTeacher = %v, want %v", i, item.IsTeacher, wantTeacher[i])
		}
	}
	if items[0].Teacher != "june" || items[1].Teacher != "mina" {
		t.Errorf("teacher names = %q/%q, want june/mina", items[0].Teacher, items[1].Teacher)
	}
}

func TestHomeFeedStudentWindowBoundsExpansion(t *testing.T) {
	// The reserved lecture runs Tuesdays all month, but only the two
	// Tuesdays inside the reserved window may appear.
	svc := newFeedFixture(day(2026, time.August, 26))
	items, _, err := svc.HomeFeed(context.Background(), 1, 0, 50)
	if err != nil {
		t.Fatalf("HomeFeed: %v", err)
	}
	student := 0
	for _, item := range items {
		if !item.IsTeacher {
			student++
			if item.LectureID != 200 {
				t.Errorf("student item points at lecture %d", item.LectureID)
			}
		}
	}
	if student != 2 {
		t.Errorf("got %d student occurrences, want 2 (window Sep 8-15 only)", student)
	}
}

func TestHomeFeedPagination(t *testing.T) {
	svc := newFeedFixture(day(2026, time.August, 26))
	cases := []struct {
		page, size int
		wantLen    int
		wantMore   bool
		firstDate  time.Time
	}{
		{0, 2, 2, true, day(2026, time.September, 7)},
		{1, 2, 2, true, day(2026, time.September, 14)},
		{2, 2, 1, false, day(2026, time.September, 21)},
		{3, 2, 0, false, time.Time{}},
		{0, 5, 5, false, day(2026, time.September, 7)},
	}
	for _, tc := range cases {
		items, hasMore, err := svc.HomeFeed(context.Background(), 1, tc.page, tc.size)
		if err != nil {
			t.Fatalf("HomeFeed(page=%d): %v", tc.page, err)
		}
		if len(items) != tc.wantLen || hasMore != tc.wantMore {
			t.Errorf("page %d size %d: got %d items hasMore=%v, want %d items hasMore=%v",
				tc.page, tc.size, len(items), hasMore, tc.wantLen, tc.wantMore)
		}
		if tc.wantLen > 0 && !items[0].Date.Equal(tc.firstDate) {
			t.Errorf("page %d starts at %v, want %v", tc.page, items[0].Date, tc.firstDate)
		}
	}
}

func TestHomeFeedRejectsBadPaging(t *testing.T) {
	svc := newFeedFixture(day(2026, time.August, 26))
	items, hasMore, err := svc.HomeFeed(context.Background(), 1, -1, 0)
	if err != nil {
		t.Fatalf("HomeFeed: %v", err)
	}
	if len(items) != 0 || hasMore {
		t.Error("invalid paging parameters should yield an empty page")
	}
}

func TestHistoryDescending(t *testing.T) {
	// Mid-September: Sep 7, 8, 14 and 15 have elapsed; Sep 21 has not.
	svc := newFeedFixture(day(2026, time.September, 16).Add(12 * time.Hour))
	items, hasMore, err := svc.History(context.Background(), 1, 0, 50)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if hasMore {
		t.Error("single page expected")
	}
	wantDates := []time.Time{
		day(2026, time.September, 15),
		day(2026, time.September, 14),
		day(2026, time.September, 8),
		day(2026, time.September, 7),
	}
	if len(items) != len(wantDates) {
		t.Fatalf("got %d items, want %d", len(items), len(wantDates))
	}
	for i, item := range items {
		if !item.Date.Equal(wantDates[i]) {
			t.Errorf("item %d date = %v, want %v", i, item.Date, wantDates[i])
		}
		if item.IsOnAir {
			t.Errorf("item %d: elapsed occurrences are never on air", i)
		}
	}
}
