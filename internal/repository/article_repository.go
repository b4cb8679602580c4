package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/live-lecture-reservation/internal/model"
)

// ArticleRepo provides CRUD operations for teacher notices.  Like
// toggling is not here: it mutates the versioned counter and goes through
// the article store so the optimistic protocol is never bypassed.
type ArticleRepo struct {
    db *sql.DB
}

// NewArticleRepo returns a new ArticleRepo bound to the given database.
func NewArticleRepo(db *sql.DB) *ArticleRepo { return &ArticleRepo{db: db} }

// Create inserts an article with a zero like count and version.
func (r *ArticleRepo) Create(ctx context.Context, a *model.Article) error {
    const q = `INSERT INTO articles (user_id, title, content) VALUES (?,?,?)`
    res, err := r.db.ExecContext(ctx, q, a.UserID, a.Title, a.Content)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = uint64(id)
    return nil
}

// GetByID returns one article or ErrNotFound.
func (r *ArticleRepo) GetByID(ctx context.Context, id uint64) (model.Article, error) {
    const q = `SELECT id, user_id, title, content, like_count, version, created_at, updated_at
               FROM articles WHERE id = ?`
    var a model.Article
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &a.ID, &a.UserID, &a.Title, &a.Content,
        &a.LikeCount, &a.Version, &a.CreatedAt, &a.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Article{}, ErrNotFound
    }
    return a, err
}

// ListByTeacher returns a teacher's articles, newest first.
func (r *ArticleRepo) ListByTeacher(ctx context.Context, teacherID uint64) ([]model.Article, error) {
    const q = `SELECT id, user_id, title, content, like_count, version, created_at, updated_at
               FROM articles WHERE user_id = ? ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, teacherID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    articles := make([]model.Article, 0)
    for rows.Next() {
        var a model.Article
        if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Content,
            &a.LikeCount, &a.Version, &a.CreatedAt, &a.UpdatedAt); err != nil {
            return nil, err
        }
        articles = append(articles, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return articles, nil
}

// Delete removes an article owned by the caller, cascading its like rows.
func (r *ArticleRepo) Delete(ctx context.Context, articleID, ownerID uint64) error {
    var actualOwner uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT user_id FROM articles WHERE id = ?`, articleID).Scan(&actualOwner)
    if err == sql.ErrNoRows {
        return ErrNotFound
    }
    if err != nil {
        return err
    }
    if actualOwner != ownerID {
        return ErrForbidden
    }
    _, err = r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, articleID)
    return err
}

// HasLike reports whether the user currently likes the article.
func (r *ArticleRepo) HasLike(ctx context.Context, articleID, userID uint64) (bool, error) {
    var n int
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM article_likes WHERE article_id = ? AND user_id = ?`,
        articleID, userID).Scan(&n)
    return n > 0, err
}
