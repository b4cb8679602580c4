// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/google/uuid"

// ReservationConfirmedEvent is published when a booking is successfully
// confirmed. It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	EventID       string `json:"event_id"`
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	LectureID     uint64 `json:"lecture_id"`
	LectureTitle  string `json:"lecture_title"`
	Teacher       string `json:"teacher"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// NewEventID returns a fresh identifier for deduplication by consumers.
func NewEventID() string { return uuid.NewString() }
