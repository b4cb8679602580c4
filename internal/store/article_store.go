package store

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/live-lecture-reservation/internal/counter"
    "github.com/iliyamo/live-lecture-reservation/internal/model"
    "github.com/iliyamo/live-lecture-reservation/internal/service"
)

// ArticleStore backs the like workflow.  The like counter lives in the
// articles row guarded by its version column; SaveLikeCount performs the
// compare-and-swap that the optimistic engine retries on.
type ArticleStore struct {
    db *sql.DB
}

// NewArticleStore returns an ArticleStore bound to the given database.
func NewArticleStore(db *sql.DB) *ArticleStore { return &ArticleStore{db: db} }

func (s *ArticleStore) ArticleByID(ctx context.Context, id uint64) (model.Article, error) {
    var a model.Article
    err := s.db.QueryRowContext(ctx,
        `SELECT id, user_id, title, content, like_count, version, created_at, updated_at
         FROM articles WHERE id = ?`, id).
        Scan(&a.ID, &a.UserID, &a.Title, &a.Content,
            &a.LikeCount, &a.Version, &a.CreatedAt, &a.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Article{}, service.ErrNotFound
    }
    return a, err
}

func (s *ArticleStore) HasLike(ctx context.Context, articleID, userID uint64) (bool, error) {
    var n int
    err := s.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM article_likes WHERE article_id = ? AND user_id = ?`,
        articleID, userID).Scan(&n)
    return n > 0, err
}

// CreateLike inserts the (article, user) mark.  The unique key on the
// pair turns a concurrent duplicate into MySQL error 1062, reported as
// service.ErrAlreadyLiked so the workflow skips its counter delta.
func (s *ArticleStore) CreateLike(ctx context.Context, articleID, userID uint64) error {
    _, err := s.db.ExecContext(ctx,
        `INSERT INTO article_likes (article_id, user_id) VALUES (?,?)`,
        articleID, userID)
    if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
        return service.ErrAlreadyLiked
    }
    return err
}

func (s *ArticleStore) DeleteLike(ctx context.Context, articleID, userID uint64) error {
    _, err := s.db.ExecContext(ctx,
        `DELETE FROM article_likes WHERE article_id = ? AND user_id = ?`,
        articleID, userID)
    return err
}

func (s *ArticleStore) LoadLikeCount(ctx context.Context, articleID uint64) (counter.Record, error) {
    var rec counter.Record
    err := s.db.QueryRowContext(ctx,
        `SELECT like_count, version FROM articles WHERE id = ?`, articleID).
        Scan(&rec.Value, &rec.Version)
    if err == sql.ErrNoRows {
        return counter.Record{}, service.ErrNotFound
    }
    return rec, err
}

// SaveLikeCount writes the new counter value only if the version is still
// the one the caller loaded.  Zero affected rows means another writer got
// there first and the engine should reload and retry.
func (s *ArticleStore) SaveLikeCount(ctx context.Context, articleID uint64, rec counter.Record, newValue int64) error {
    res, err := s.db.ExecContext(ctx,
        `UPDATE articles SET like_count = ?, version = version + 1
         WHERE id = ? AND version = ?`,
        newValue, articleID, rec.Version)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return counter.ErrVersionConflict
    }
    return nil
}
