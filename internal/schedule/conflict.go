package schedule

import (
    "time"

    "github.com/iliyamo/live-lecture-reservation/internal/model"
)

// DateRange is an inclusive calendar date interval.  Start and End are
// expected to be midnight-normalized dates; the comparison treats touching
// endpoints as overlapping, so a range ending on the day another begins
// still collides with it.
type DateRange struct {
    Start time.Time
    End   time.Time
}

// Overlaps reports whether two inclusive ranges intersect.  Equal start
// dates, equal end dates and shared boundary dates all count as overlap.
// The check is symmetric.
func (r DateRange) Overlaps(o DateRange) bool {
    return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// Booking pairs a reserved date window with the lecture definition behind
// it.  The conflict check needs both: the window bounds when the booking
// is active, the lecture supplies the weekly pattern inside it.
type Booking struct {
    Range   DateRange
    Lecture model.Lecture
}

// Conflicts reports whether the candidate booking collides with any of the
// user's existing bookings, short-circuiting on the first hit.  Two
// bookings collide only when their date windows overlap AND their lectures
// meet on at least one weekday at an overlapping time of day: a student
// cannot sit in two live sessions at the same time of the same weekday
// while both bookings are active.
func Conflicts(candidate Booking, existing []Booking) bool {
    for _, b := range existing {
        if candidate.Range.Overlaps(b.Range) && patternsOverlap(candidate.Lecture, b.Lecture) {
            return true
        }
    }
    return false
}

// patternsOverlap reports whether two lectures share a weekday on which
// their daily time windows intersect.  Time-of-day comparison uses the
// same inclusive boundary rule as date ranges: windows that merely touch
// (one ends exactly when the other starts) are treated as overlapping.
// Overnight windows (end clock before start clock) are compared on their
// raw clock values, so only the pre-midnight portion registers against
// other windows; the spill-over into the next day is not checked.
func patternsOverlap(a, b model.Lecture) bool {
    daysA := ParseDays(a.AvailableDays)
    daysB := ParseDays(b.AvailableDays)

    shared := false
    for d := range daysA {
        if daysB[d] {
            shared = true
            break
        }
    }
    if !shared {
        return false
    }

    s1, e1 := secOfDay(a.StartTime), secOfDay(a.EndTime)
    s2, e2 := secOfDay(b.StartTime), secOfDay(b.EndTime)
    return s1 <= e2 && e1 >= s2
}
