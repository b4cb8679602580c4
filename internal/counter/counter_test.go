package counter

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// memRecord is an in-memory versioned counter guarded by a mutex, with the
// same compare-and-swap contract the MySQL store implements.
type memRecord struct {
	mu  sync.Mutex
	rec Record
}

func (m *memRecord) load(context.Context) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, nil
}

func (m *memRecord) save(_ context.Context, rec Record, newValue int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.Version != m.rec.Version {
		return ErrVersionConflict
	}
	m.rec = Record{Value: newValue, Version: m.rec.Version + 1}
	return nil
}

func TestApplyDeltaIncrement(t *testing.T) {
	m := &memRecord{rec: Record{Value: 4, Version: 7}}
	got, err := ApplyDelta(context.Background(), 1, m.load, m.save)
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if got != 5 {
		t.Errorf("value = %d, want 5", got)
	}
	if m.rec.Version != 8 {
		t.Errorf("version = %d, want 8", m.rec.Version)
	}
}

func TestApplyDeltaFloorsAtZero(t *testing.T) {
	m := &memRecord{}
	got, err := ApplyDelta(context.Background(), -1, m.load, m.save)
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if got != 0 {
		t.Errorf("value = %d, a decrement must never drive the counter negative", got)
	}
}

func TestApplyDeltaRetriesOnConflict(t *testing.T) {
	m := &memRecord{rec: Record{Value: 10, Version: 1}}
	losses := 0
	save := func(ctx context.Context, rec Record, newValue int64) error {
		if losses < 3 {
			losses++
			// Simulate a competing writer bumping the version.
			m.mu.Lock()
			m.rec.Version++
			m.mu.Unlock()
			return ErrVersionConflict
		}
		return m.save(ctx, rec, newValue)
	}
	got, err := ApplyDelta(context.Background(), 5, m.load, save)
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if got != 15 {
		t.Errorf("value = %d, want 15", got)
	}
	if losses != 3 {
		t.Errorf("lost the race %d times, want 3", losses)
	}
}

func TestApplyDeltaExhaustsRetries(t *testing.T) {
	attempts := 0
	load := func(context.Context) (Record, error) {
		attempts++
		return Record{}, nil
	}
	save := func(context.Context, Record, int64) error {
		return ErrVersionConflict
	}
	_, err := ApplyDelta(context.Background(), 1, load, save)
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("err = %v, want ErrRetriesExhausted", err)
	}
	if attempts != maxAttempts {
		t.Errorf("attempted %d times, want %d", attempts, maxAttempts)
	}
}

func TestApplyDeltaStopsOnOtherErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	m := &memRecord{}
	calls := 0
	save := func(context.Context, Record, int64) error {
		calls++
		return boom
	}
	_, err := ApplyDelta(context.Background(), 1, m.load, save)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the save error", err)
	}
	if calls != 1 {
		t.Errorf("non-conflict errors must not be retried; save called %d times", calls)
	}
}

func TestApplyDeltaHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &memRecord{}
	save := func(context.Context, Record, int64) error {
		return ErrVersionConflict
	}
	_, err := ApplyDelta(ctx, 1, m.load, save)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestApplyDeltaConcurrentWritersConverge(t *testing.T) {
	m := &memRecord{}
	const writers = 16
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			// A writer that loses its whole budget starts over, the
			// way a client retrying a 409 would.
			for {
				_, err := ApplyDelta(context.Background(), 1, m.load, m.save)
				if err == nil {
					return
				}
				if !errors.Is(err, ErrRetriesExhausted) {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if m.rec.Value != writers {
		t.Errorf("final value = %d, want %d; increments were lost", m.rec.Value, writers)
	}
	if m.rec.Version != writers {
		t.Errorf("final version = %d, want %d", m.rec.Version, writers)
	}
}
