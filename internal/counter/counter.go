// Package counter implements optimistic, lock-free mutation of versioned
// counters.  Concurrent writers race on a version token; the loser reloads
// and retries.  Retries are bounded with exponential backoff so that
// sustained contention surfaces as ErrWriteConflict instead of spinning
// forever.
package counter

import (
    "context"
    "errors"
    "time"
)

// ErrVersionConflict must be returned by a SaveFunc when the record's
// version changed between load and save.  It is the only error the engine
// retries; everything else aborts the loop immediately.
var ErrVersionConflict = errors.New("version conflict")

// ErrRetriesExhausted is returned after the final attempt still lost the
// version race.  Callers should surface it as a transient write conflict.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Record is a counter value snapshot together with the version token it
// was read under.
type Record struct {
    Value   int64
    Version uint64
}

// LoadFunc reads the current record.  SaveFunc persists a new value and
// must compare-and-swap on rec.Version, returning ErrVersionConflict when
// another writer got there first.
type (
    LoadFunc func(ctx context.Context) (Record, error)
    SaveFunc func(ctx context.Context, rec Record, newValue int64) error
)

const (
    maxAttempts    = 8
    initialBackoff = 2 * time.Millisecond
)

// ApplyDelta runs the load-mutate-save cycle until the save wins the
// version race, the attempt budget runs out, or the context is cancelled.
// The counter is floored at zero so a duplicate decrement can never drive
// it negative.  On success the value that was written is returned.
func ApplyDelta(ctx context.Context, delta int64, load LoadFunc, save SaveFunc) (int64, error) {
    backoff := initialBackoff
    for attempt := 0; attempt < maxAttempts; attempt++ {
        if attempt > 0 {
            select {
            case <-time.After(backoff):
            case <-ctx.Done():
                return 0, ctx.Err()
            }
            backoff *= 2
        }

        rec, err := load(ctx)
        if err != nil {
            return 0, err
        }
        next := rec.Value + delta
        if next < 0 {
            next = 0
        }
        err = save(ctx, rec, next)
        if err == nil {
            return next, nil
        }
        if !errors.Is(err, ErrVersionConflict) {
            return 0, err
        }
    }
    return 0, ErrRetriesExhausted
}
