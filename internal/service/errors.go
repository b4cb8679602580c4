// Package service contains the booking, home feed and article workflows.
// Services orchestrate the pure schedule/counter packages over narrow
// store interfaces; the MySQL repositories implement those interfaces and
// tests substitute in-memory fakes.
package service

import "errors"

// Sentinel errors returned by the workflows.  Handlers translate each one
// into a distinct HTTP status so callers can tell "slot full" from "time
// conflict".  None of them wraps storage internals.
var (
    // ErrNotFound means a referenced user, lecture, reservation or
    // article does not exist.
    ErrNotFound = errors.New("not found")

    // ErrForbidden means the caller may not act on the resource, e.g. a
    // teacher booking their own lecture or touching someone else's record.
    ErrForbidden = errors.New("forbidden")

    // ErrInvalidWindow means the requested reservation window is empty or
    // falls outside the lecture's own date range.
    ErrInvalidWindow = errors.New("invalid reservation window")

    // ErrCapacityExceeded means the lecture already has its maximum
    // number of active participants.  The caller may retry later.
    ErrCapacityExceeded = errors.New("capacity exceeded")

    // ErrScheduleConflict means the candidate booking overlaps one of the
    // user's existing reservations in date, weekday and time of day.
    ErrScheduleConflict = errors.New("schedule conflict")

    // ErrWriteConflict means an optimistic update kept losing the version
    // race and gave up after the retry budget.
    ErrWriteConflict = errors.New("write conflict")

    // ErrAlreadyLiked is returned by ArticleStore.CreateLike when the
    // (article, user) mark already exists.  It never reaches handlers;
    // the like workflow treats it as "nothing to do".
    ErrAlreadyLiked = errors.New("already liked")
)
