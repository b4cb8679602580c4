package schedule

import (
	"testing"
	"time"

	"github.com/iliyamo/live-lecture-reservation/internal/model"
)

func clock(h, m int) time.Time {
	return time.Date(2000, 1, 1, h, m, 0, 0, time.UTC)
}

func date(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func lecture(days string, start, end time.Time) model.Lecture {
	return model.Lecture{
		ID:            1,
		UserID:        10,
		Title:         "evening session",
		AvailableDays: days,
		StartTime:     start,
		EndTime:       end,
	}
}

func TestExpandFutureOccurrences(t *testing.T) {
	lec := lecture("MON,WED", clock(10, 0), clock(11, 0))
	lec.IsOnAir = true
	// 2026-08-24 is a Monday.
	from, to := date(2026, time.August, 24), date(2026, time.August, 30)
	now := date(2026, time.August, 20)

	occs := Expand(lec, from, to, now, time.UTC)
	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occs))
	}
	if !occs[0].Date.Equal(date(2026, time.August, 24)) || occs[0].Day != "MON" {
		t.Errorf("first occurrence = %v (%s), want Mon Aug 24", occs[0].Date, occs[0].Day)
	}
	if !occs[1].Date.Equal(date(2026, time.August, 26)) || occs[1].Day != "WED" {
		t.Errorf("second occurrence = %v (%s), want Wed Aug 26", occs[1].Date, occs[1].Day)
	}
	for _, occ := range occs {
		// The live flag has no meaning for a session that cannot have
		// started yet.
		if occ.IsOnAir {
			t.Errorf("future occurrence on %v reports on-air", occ.Date)
		}
	}
}

func TestExpandTodayWindow(t *testing.T) {
	lec := lecture("WED", clock(10, 0), clock(11, 0))
	lec.IsOnAir = true
	day := date(2026, time.August, 26) // Wednesday

	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before start", day.Add(9 * time.Hour), 1},
		{"mid session", day.Add(10*time.Hour + 30*time.Minute), 1},
		{"exactly at end", day.Add(11 * time.Hour), 0},
		{"after end", day.Add(12 * time.Hour), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			occs := Expand(lec, day, day, tc.now, time.UTC)
			if len(occs) != tc.want {
				t.Fatalf("got %d occurrences, want %d", len(occs), tc.want)
			}
			if tc.want == 1 && !occs[0].IsOnAir {
				t.Error("today's occurrence should mirror the live flag")
			}
		})
	}
}

func TestExpandOvernightCarriesIntoNextDay(t *testing.T) {
	// Monday 22:00 - 02:00 crosses midnight; at Tuesday 01:00 the Monday
	// session is still running and must surface under Monday's date.
	lec := lecture("MON", clock(22, 0), clock(2, 0))
	lec.IsOnAir = true
	mon := date(2026, time.August, 24)
	tue := date(2026, time.August, 25)
	now := tue.Add(1 * time.Hour)

	occs := Expand(lec, mon, tue, now, time.UTC)
	if len(occs) != 1 {
		t.Fatalf("expected exactly 1 occurrence, got %d", len(occs))
	}
	occ := occs[0]
	if !occ.Date.Equal(mon) {
		t.Errorf("occurrence date = %v, want Monday %v", occ.Date, mon)
	}
	if !occ.EndsAt.Equal(tue.Add(2 * time.Hour)) {
		t.Errorf("EndsAt = %v, want Tuesday 02:00", occ.EndsAt)
	}
	if !occ.IsOnAir {
		t.Error("a session that could be live now should mirror the flag")
	}
}

func TestExpandOvernightElapsed(t *testing.T) {
	lec := lecture("MON", clock(22, 0), clock(2, 0))
	mon := date(2026, time.August, 24)
	tue := date(2026, time.August, 25)
	now := tue.Add(3 * time.Hour) // past the 02:00 end

	if occs := Expand(lec, mon, tue, now, time.UTC); len(occs) != 0 {
		t.Fatalf("expected no upcoming occurrences, got %d", len(occs))
	}
	occs := ExpandElapsed(lec, mon, tue, now, time.UTC)
	if len(occs) != 1 || !occs[0].Date.Equal(mon) {
		t.Fatalf("elapsed view should hold Monday's occurrence, got %v", occs)
	}
	if occs[0].IsOnAir {
		t.Error("elapsed occurrences can never be on air")
	}
}

func TestExpandTodayOvernightAlwaysIncluded(t *testing.T) {
	// An overnight session scheduled for today has not ended regardless of
	// the current clock, because its end lies on tomorrow's date.
	lec := lecture("MON", clock(22, 0), clock(2, 0))
	mon := date(2026, time.August, 24)
	now := mon.Add(23 * time.Hour)

	occs := Expand(lec, mon, mon, now, time.UTC)
	if len(occs) != 1 {
		t.Fatalf("expected today's overnight occurrence, got %d", len(occs))
	}
}

func TestExpandViewsPartitionTheCalendar(t *testing.T) {
	lec := lecture("MON,TUE,WED,THU,FRI,SAT,SUN", clock(10, 0), clock(11, 0))
	from, to := date(2026, time.August, 17), date(2026, time.August, 30)
	now := date(2026, time.August, 24).Add(10*time.Hour + 30*time.Minute)

	upcoming := Expand(lec, from, to, now, time.UTC)
	elapsed := ExpandElapsed(lec, from, to, now, time.UTC)

	seen := make(map[string]int)
	for _, occ := range upcoming {
		seen[occ.Date.Format("2006-01-02")]++
	}
	for _, occ := range elapsed {
		seen[occ.Date.Format("2006-01-02")]++
	}
	if len(seen) != 14 {
		t.Fatalf("expected all 14 dates covered, got %d", len(seen))
	}
	for d, n := range seen {
		if n != 1 {
			t.Errorf("date %s appears %d times across the two views", d, n)
		}
	}
}

func TestExpandEmptyDaySet(t *testing.T) {
	lec := lecture("", clock(10, 0), clock(11, 0))
	occs := Expand(lec, date(2026, time.August, 24), date(2026, time.August, 30),
		date(2026, time.August, 1), time.UTC)
	if occs != nil {
		t.Fatalf("lecture with no weekdays should expand to nothing, got %v", occs)
	}
}

func TestParseDays(t *testing.T) {
	set := ParseDays("MON, ,xyz,fri,FRI")
	if len(set) != 2 || !set["MON"] || !set["FRI"] {
		t.Fatalf("ParseDays = %v, want {MON FRI}", set)
	}
	if ValidDays("XYZ") {
		t.Error("unknown codes alone should not validate")
	}
	if !ValidDays("sun") {
		t.Error("codes should match case-insensitively")
	}
}
