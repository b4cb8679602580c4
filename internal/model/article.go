package model

import "time"

// Article is a notice posted by a teacher, stored in the `articles`
// table.  The like counter is mutated concurrently by many users, so the
// row carries a version column used as an optimistic token: an update only
// succeeds when the version it read is still current.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – teacher who wrote the article.
//  Title     – article title.
//  Content   – article body.
//  LikeCount – number of users who currently like the article (>= 0).
//  Version   – optimistic version token guarding LikeCount.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Article struct {
    ID        uint64    // articles.id
    UserID    uint64    // articles.user_id
    Title     string    // articles.title
    Content   string    // articles.content
    LikeCount int64     // articles.like_count
    Version   uint64    // articles.version
    CreatedAt time.Time // articles.created_at
    UpdatedAt time.Time // articles.updated_at
}
