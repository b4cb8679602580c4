package model

import "time"

// Reservation records a student's claim on a sub-range of a lecture's run.
// The student chooses a window inside the lecture's own date range, which
// lets them join only part of a multi-week series.  Reservations are
// created by the booking workflow after the capacity and schedule-conflict
// checks pass and are never mutated afterwards.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – student who made the reservation.
//  LectureID – lecture being reserved.
//  StartDate – first date of the reserved window (inclusive).
//  EndDate   – last date of the reserved window (inclusive).
//  CreatedAt – creation timestamp.
type Reservation struct {
    ID        uint64    // reservations.id
    UserID    uint64    // reservations.user_id
    LectureID uint64    // reservations.lecture_id
    StartDate time.Time // reservations.start_date
    EndDate   time.Time // reservations.end_date
    CreatedAt time.Time // reservations.created_at
}
