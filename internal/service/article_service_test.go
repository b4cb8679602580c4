package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/iliyamo/live-lecture-reservation/internal/counter"
	"github.com/iliyamo/live-lecture-reservation/internal/model"
)

type likeKey struct{ article, user uint64 }

// fakeArticleStore mirrors the MySQL article store: per-user like marks
// with pair uniqueness and a versioned counter saved by compare-and-swap.
type fakeArticleStore struct {
	mu       sync.Mutex
	articles map[uint64]model.Article
	likes    map[likeKey]bool
	counters map[uint64]counter.Record
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{
		articles: make(map[uint64]model.Article),
		likes:    make(map[likeKey]bool),
		counters: make(map[uint64]counter.Record),
	}
}

func (s *fakeArticleStore) ArticleByID(_ context.Context, id uint64) (model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return model.Article{}, ErrNotFound
	}
	return a, nil
}

func (s *fakeArticleStore) HasLike(_ context.Context, articleID, userID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes[likeKey{articleID, userID}], nil
}

func (s *fakeArticleStore) CreateLike(_ context.Context, articleID, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := likeKey{articleID, userID}
	if s.likes[k] {
		return ErrAlreadyLiked
	}
	s.likes[k] = true
	return nil
}

func (s *fakeArticleStore) DeleteLike(_ context.Context, articleID, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.likes, likeKey{articleID, userID})
	return nil
}

func (s *fakeArticleStore) LoadLikeCount(_ context.Context, articleID uint64) (counter.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[articleID], nil
}

func (s *fakeArticleStore) SaveLikeCount(_ context.Context, articleID uint64, rec counter.Record, newValue int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.counters[articleID]
	if cur.Version != rec.Version {
		return counter.ErrVersionConflict
	}
	s.counters[articleID] = counter.Record{Value: newValue, Version: cur.Version + 1}
	return nil
}

func newArticleFixture() (*fakeArticleStore, *ArticleService) {
	st := newFakeArticleStore()
	st.articles[1] = model.Article{ID: 1, UserID: 10, Title: "notice"}
	return st, NewArticleService(st)
}

func TestToggleLike(t *testing.T) {
	st, svc := newArticleFixture()
	ctx := context.Background()

	count, err := svc.ToggleLike(ctx, 1, 2, true)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	// Liking again changes nothing.
	count, err = svc.ToggleLike(ctx, 1, 2, true)
	if err != nil {
		t.Fatalf("repeat like: %v", err)
	}
	if count != 1 {
		t.Errorf("repeat like count = %d, want 1", count)
	}
	if st.counters[1].Value != 1 {
		t.Errorf("stored count = %d, a duplicate like must not apply a second delta", st.counters[1].Value)
	}

	count, err = svc.ToggleLike(ctx, 1, 2, false)
	if err != nil {
		t.Fatalf("dislike: %v", err)
	}
	if count != 0 {
		t.Errorf("count after dislike = %d, want 0", count)
	}

	// Clearing an absent like is also a no-op.
	count, err = svc.ToggleLike(ctx, 1, 2, false)
	if err != nil {
		t.Fatalf("repeat dislike: %v", err)
	}
	if count != 0 {
		t.Errorf("repeat dislike count = %d, want 0", count)
	}
}

func TestToggleLikeUnknownArticle(t *testing.T) {
	_, svc := newArticleFixture()
	if _, err := svc.ToggleLike(context.Background(), 99, 2, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestToggleLikeConcurrentUsers(t *testing.T) {
	st, svc := newArticleFixture()
	const users = 12

	var wg sync.WaitGroup
	wg.Add(users)
	for i := 0; i < users; i++ {
		go func(uid uint64) {
			defer wg.Done()
			for {
				_, err := svc.ToggleLike(context.Background(), 1, uid, true)
				if err == nil {
					return
				}
				if !errors.Is(err, ErrWriteConflict) {
					t.Errorf("user %d: %v", uid, err)
					return
				}
			}
		}(uint64(100 + i))
	}
	wg.Wait()

	if st.counters[1].Value != users {
		t.Errorf("final count = %d, want %d; a like was lost", st.counters[1].Value, users)
	}
}

func TestToggleLikeSustainedContention(t *testing.T) {
	st, svc := newArticleFixture()
	contended := &contendedStore{fakeArticleStore: st}
	svc = NewArticleService(contended)

	_, err := svc.ToggleLike(context.Background(), 1, 2, true)
	if !errors.Is(err, ErrWriteConflict) {
		t.Fatalf("err = %v, want ErrWriteConflict once the retry budget runs out", err)
	}
}

// contendedStore makes every counter save lose the version race.
type contendedStore struct {
	*fakeArticleStore
}

func (s *contendedStore) SaveLikeCount(context.Context, uint64, counter.Record, int64) error {
	return counter.ErrVersionConflict
}

func TestToggleLikeManyArticlesIndependent(t *testing.T) {
	st, svc := newArticleFixture()
	for i := uint64(2); i <= 4; i++ {
		st.articles[i] = model.Article{ID: i, UserID: 10, Title: fmt.Sprintf("notice %d", i)}
	}
	ctx := context.Background()
	for i := uint64(1); i <= 4; i++ {
		if _, err := svc.ToggleLike(ctx, i, 2, true); err != nil {
			t.Fatalf("like article %d: %v", i, err)
		}
	}
	for i := uint64(1); i <= 4; i++ {
		if st.counters[i].Value != 1 {
			t.Errorf("article %d count = %d, want 1", i, st.counters[i].Value)
		}
	}
}

// faultyCounterStore fails every counter save with a non-conflict error,
// simulating a store fault after the like mark was already written.
type faultyCounterStore struct {
	*fakeArticleStore
	saveErr error
}

func (s *faultyCounterStore) SaveLikeCount(context.Context, uint64, counter.Record, int64) error {
	return s.saveErr
}

func TestToggleLikeRollsBackMarkOnSaveFault(t *testing.T) {
	st, _ := newArticleFixture()
	boom := errors.New("connection reset")
	svc := NewArticleService(&faultyCounterStore{fakeArticleStore: st, saveErr: boom})
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, 1, 2, true)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the store fault surfaced", err)
	}
	if st.likes[likeKey{1, 2}] {
		t.Error("like mark survived a failed counter save; a retry would short-circuit and lose the increment")
	}

	// Same on the dislike path: the cleared mark must be restored.
	st.likes[likeKey{1, 2}] = true
	st.counters[1] = counter.Record{Value: 1, Version: 1}
	if _, err := svc.ToggleLike(ctx, 1, 2, false); !errors.Is(err, boom) {
		t.Fatalf("dislike err = %v, want the store fault surfaced", err)
	}
	if !st.likes[likeKey{1, 2}] {
		t.Error("like mark not restored after a failed counter decrement")
	}
}
