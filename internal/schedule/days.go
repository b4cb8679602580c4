package schedule

import (
    "strings"
    "time"
)

// dayCodes maps time.Weekday values to the three letter codes stored in
// live_lectures.available_days.  The codes match the first three letters
// of the English weekday names.
var dayCodes = map[time.Weekday]string{
    time.Monday:    "MON",
    time.Tuesday:   "TUE",
    time.Wednesday: "WED",
    time.Thursday:  "THU",
    time.Friday:    "FRI",
    time.Saturday:  "SAT",
    time.Sunday:    "SUN",
}

// DayCode returns the storage code for a weekday, e.g. "MON" for Monday.
func DayCode(d time.Weekday) string { return dayCodes[d] }

// ParseDays splits a comma separated list of weekday codes into a set.
// Unknown or empty entries are ignored, so "MON, ,XYZ,FRI" yields
// {MON, FRI}.  Codes are matched case-insensitively.
func ParseDays(csv string) map[string]bool {
    set := make(map[string]bool)
    for _, p := range strings.Split(csv, ",") {
        p = strings.ToUpper(strings.TrimSpace(p))
        if p == "" {
            continue
        }
        for _, code := range dayCodes {
            if p == code {
                set[p] = true
                break
            }
        }
    }
    return set
}

// ValidDays reports whether csv contains at least one recognized weekday
// code.  Lectures with an empty weekday set can never occur and are
// rejected at creation time.
func ValidDays(csv string) bool { return len(ParseDays(csv)) > 0 }
