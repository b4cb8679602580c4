// Package schedule implements the calendar arithmetic behind live
// lectures: expanding a recurring lecture definition into concrete
// occurrences relative to a reference instant, and deciding whether two
// bookings collide.  Everything in this package is pure; callers supply
// the reference time and display zone explicitly.
package schedule

import (
    "time"

    "github.com/iliyamo/live-lecture-reservation/internal/model"
)

// Occurrence is one concrete calendar instance of a recurring lecture.
// It is derived on demand and never persisted.  Date is midnight of the
// occurrence's calendar date in the display zone; StartsAt/EndsAt are the
// absolute instants the session runs.  For an overnight session EndsAt
// falls on the following calendar date.
type Occurrence struct {
    LectureID uint64
    Date      time.Time
    Day       string // weekday code of Date, e.g. "MON"
    StartsAt  time.Time
    EndsAt    time.Time
    IsOnAir   bool
}

// secOfDay reduces an instant to its UTC clock time in seconds since
// midnight.  Lecture clock times are stored UTC-normalized, so the UTC
// wall clock is the daily window regardless of the instant's actual date.
func secOfDay(t time.Time) int {
    u := t.UTC()
    return u.Hour()*3600 + u.Minute()*60 + u.Second()
}

// dateOf truncates an instant to midnight of its calendar date in zone.
func dateOf(t time.Time, zone *time.Location) time.Time {
    y, m, d := t.In(zone).Date()
    return time.Date(y, m, d, 0, 0, 0, 0, zone)
}

// at combines a calendar date with a seconds-since-midnight clock time.
func at(date time.Time, sec int) time.Time {
    return date.Add(time.Duration(sec) * time.Second)
}

// Expand walks every calendar date between from and to (inclusive, both
// normalized to the display zone) whose weekday belongs to the lecture's
// weekday set, and returns the occurrences that are still upcoming or in
// progress relative to now:
//
//   - dates strictly after today are always included,
//   - today's occurrence is included while its window has not ended, or
//     unconditionally when the window crosses midnight,
//   - yesterday's occurrence of an overnight lecture is included while the
//     current clock time is still before the window's end; it is reported
//     under yesterday's date, which is the session the student is watching
//     "today".
//
// IsOnAir mirrors the lecture's live flag only for the two "could be live
// now" cases; future occurrences always report false because the flag has
// no meaning for a session that cannot have started yet.  A single
// calendar date yields at most one occurrence: a date is either yesterday
// or today relative to a fixed now, never both.
func Expand(lec model.Lecture, from, to time.Time, now time.Time, zone *time.Location) []Occurrence {
    days := ParseDays(lec.AvailableDays)
    if len(days) == 0 {
        return nil
    }

    startSec := secOfDay(lec.StartTime)
    endSec := secOfDay(lec.EndTime)
    overnight := endSec < startSec

    today := dateOf(now, zone)
    yesterday := today.AddDate(0, 0, -1)
    nowSec := clockSecIn(now, zone)

    var out []Occurrence
    for date := dateOf(from, zone); !date.After(dateOf(to, zone)); date = date.AddDate(0, 0, 1) {
        code := DayCode(date.Weekday())
        if !days[code] {
            continue
        }
        isToday := date.Equal(today) && (endSec > nowSec || overnight)
        startedYesterday := date.Equal(yesterday) && overnight && endSec > nowSec
        isFuture := date.After(today)
        if !isFuture && !isToday && !startedYesterday {
            continue
        }
        onAir := false
        if isToday || startedYesterday {
            onAir = lec.IsOnAir
        }
        out = append(out, makeOccurrence(lec, date, code, startSec, endSec, overnight, onAir))
    }
    return out
}

// ExpandElapsed is the complement of Expand over the same date walk: it
// returns the occurrences that have fully passed relative to now, newest
// last.  A date qualifies when it is not upcoming under Expand's rules and
// does not lie in the future, which keeps the two views a strict partition
// of the lecture's calendar.
func ExpandElapsed(lec model.Lecture, from, to time.Time, now time.Time, zone *time.Location) []Occurrence {
    days := ParseDays(lec.AvailableDays)
    if len(days) == 0 {
        return nil
    }

    startSec := secOfDay(lec.StartTime)
    endSec := secOfDay(lec.EndTime)
    overnight := endSec < startSec

    today := dateOf(now, zone)
    yesterday := today.AddDate(0, 0, -1)
    nowSec := clockSecIn(now, zone)

    var out []Occurrence
    for date := dateOf(from, zone); !date.After(dateOf(to, zone)); date = date.AddDate(0, 0, 1) {
        code := DayCode(date.Weekday())
        if !days[code] {
            continue
        }
        if date.After(today) {
            break // everything beyond today is upcoming
        }
        stillRunning := (date.Equal(today) && (endSec > nowSec || overnight)) ||
            (date.Equal(yesterday) && overnight && endSec > nowSec)
        if stillRunning {
            continue
        }
        out = append(out, makeOccurrence(lec, date, code, startSec, endSec, overnight, false))
    }
    return out
}

// makeOccurrence materializes one occurrence on the given date.  An
// overnight window ends on the next calendar day.
func makeOccurrence(lec model.Lecture, date time.Time, code string, startSec, endSec int, overnight, onAir bool) Occurrence {
    ends := at(date, endSec)
    if overnight {
        ends = at(date.AddDate(0, 0, 1), endSec)
    }
    return Occurrence{
        LectureID: lec.ID,
        Date:      date,
        Day:       code,
        StartsAt:  at(date, startSec),
        EndsAt:    ends,
        IsOnAir:   onAir,
    }
}

// clockSecIn reduces now to its wall clock in zone, in seconds since
// midnight, for comparison against the lecture's daily window.
func clockSecIn(now time.Time, zone *time.Location) int {
    local := now.In(zone)
    return local.Hour()*3600 + local.Minute()*60 + local.Second()
}
