package model

import "time"

// Lecture represents one recurring live-lecture offering as stored in the
// `live_lectures` table.  A lecture repeats on a set of weekdays inside a
// calendar date range and runs during a fixed daily time window.  When the
// window's end clock time is numerically before its start, the session
// crosses midnight.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – teacher who owns the lecture.
//  Title           – lecture title.
//  Content         – free-form description.
//  StartDate       – first calendar date of the run (inclusive).
//  EndDate         – last calendar date of the run (inclusive).
//  StartTime       – daily start clock time, stored UTC-normalized.
//  EndTime         – daily end clock time, stored UTC-normalized.
//  AvailableDays   – comma separated weekday codes (MON..SUN).
//  MaxParticipants – hard ceiling on concurrent participants (>= 1).
//  IsOnAir         – whether the underlying live session is broadcasting
//                    right now; toggled by the teacher's signaling layer.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Lecture struct {
    ID              uint64    // live_lectures.id
    UserID          uint64    // live_lectures.user_id
    Title           string    // live_lectures.title
    Content         string    // live_lectures.content
    StartDate       time.Time // live_lectures.start_date
    EndDate         time.Time // live_lectures.end_date
    StartTime       time.Time // live_lectures.start_time
    EndTime         time.Time // live_lectures.end_time
    AvailableDays   string    // live_lectures.available_days
    MaxParticipants int       // live_lectures.max_participants
    IsOnAir         bool      // live_lectures.is_on_air
    CreatedAt       time.Time // live_lectures.created_at
    UpdatedAt       time.Time // live_lectures.updated_at
}
