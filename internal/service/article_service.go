package service

import (
    "context"
    "errors"

    "github.com/iliyamo/live-lecture-reservation/internal/counter"
    "github.com/iliyamo/live-lecture-reservation/internal/model"
)

// ArticleStore persists articles, per-user like marks and the versioned
// like counter.  SaveLikeCount must compare-and-swap on rec.Version and
// return counter.ErrVersionConflict when another writer updated the row
// first; CreateLike must enforce the (article, user) uniqueness and
// return ErrAlreadyLiked when the mark already exists.
type ArticleStore interface {
    ArticleByID(ctx context.Context, id uint64) (model.Article, error)
    HasLike(ctx context.Context, articleID, userID uint64) (bool, error)
    CreateLike(ctx context.Context, articleID, userID uint64) error
    DeleteLike(ctx context.Context, articleID, userID uint64) error
    LoadLikeCount(ctx context.Context, articleID uint64) (counter.Record, error)
    SaveLikeCount(ctx context.Context, articleID uint64, rec counter.Record, newValue int64) error
}

// ArticleService implements like toggling on top of the optimistic
// counter engine.  Idempotency lives here, not in the engine: a duplicate
// like from the same user never applies a second delta.
type ArticleService struct {
    store ArticleStore
}

// NewArticleService wires the article store.
func NewArticleService(store ArticleStore) *ArticleService {
    return &ArticleService{store: store}
}

// ToggleLike sets or clears the user's like on the article and returns
// the resulting like count.  Setting an already-set like (or clearing an
// absent one) changes nothing and reports the current count.  The counter
// mutation itself is delegated to counter.ApplyDelta; when its retry
// budget is exhausted the caller sees ErrWriteConflict.
func (s *ArticleService) ToggleLike(ctx context.Context, articleID, userID uint64, like bool) (int64, error) {
    if _, err := s.store.ArticleByID(ctx, articleID); err != nil {
        return 0, err
    }

    has, err := s.store.HasLike(ctx, articleID, userID)
    if err != nil {
        return 0, err
    }
    if has == like {
        // Nothing to do; report the current count.
        rec, err := s.store.LoadLikeCount(ctx, articleID)
        if err != nil {
            return 0, err
        }
        return rec.Value, nil
    }

    var delta int64
    if like {
        err = s.store.CreateLike(ctx, articleID, userID)
        if errors.Is(err, ErrAlreadyLiked) {
            // A concurrent request from the same user won the insert;
            // it also owns the counter increment.
            rec, lerr := s.store.LoadLikeCount(ctx, articleID)
            if lerr != nil {
                return 0, lerr
            }
            return rec.Value, nil
        }
        delta = 1
    } else {
        err = s.store.DeleteLike(ctx, articleID, userID)
        delta = -1
    }
    if err != nil {
        return 0, err
    }

    value, err := counter.ApplyDelta(ctx, delta,
        func(ctx context.Context) (counter.Record, error) {
            return s.store.LoadLikeCount(ctx, articleID)
        },
        func(ctx context.Context, rec counter.Record, newValue int64) error {
            return s.store.SaveLikeCount(ctx, articleID, rec, newValue)
        },
    )
    if err != nil {
        // Undo the mark so a client retry replays the whole toggle
        // instead of short-circuiting on an already-set like.  This
        // covers store faults as well as an exhausted retry budget:
        // either way the counter was not updated.
        if like {
            _ = s.store.DeleteLike(ctx, articleID, userID)
        } else {
            _ = s.store.CreateLike(ctx, articleID, userID)
        }
        if errors.Is(err, counter.ErrRetriesExhausted) {
            return 0, ErrWriteConflict
        }
        return 0, err
    }
    return value, nil
}
