package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-lecture-reservation/internal/model"
	"github.com/iliyamo/live-lecture-reservation/internal/repository"
	"github.com/iliyamo/live-lecture-reservation/internal/service"
)

// ArticleHandler serves teacher notices and their like toggles.  CRUD
// goes through the plain repository; like toggling goes through the
// service so the versioned counter is always updated optimistically.
type ArticleHandler struct {
	Articles *repository.ArticleRepo
	Likes    *service.ArticleService
}

func NewArticleHandler(a *repository.ArticleRepo, l *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{Articles: a, Likes: l}
}

type articleReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type articleResp struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	LikeCount int64  `json:"like_count"`
	Liked     *bool  `json:"liked,omitempty"`
}

// Create handles POST /v1/teacher/articles.
func (h *ArticleHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req articleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	a := model.Article{UserID: userID, Title: req.Title, Content: req.Content}
	if err := h.Articles.Create(c.Request().Context(), &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create article failed"})
	}
	return c.JSON(http.StatusCreated, articleResp{
		ID: a.ID, UserID: a.UserID, Title: a.Title, Content: a.Content,
	})
}

// ListByTeacher handles GET /v1/teachers/:id/articles.  Any authenticated
// user may read a teacher's notices; the liked flag reflects the caller.
func (h *ArticleHandler) ListByTeacher(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	teacherID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || teacherID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid teacher id"})
	}
	ctx := c.Request().Context()
	articles, err := h.Articles.ListByTeacher(ctx, teacherID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load articles failed"})
	}
	items := make([]articleResp, 0, len(articles))
	for _, a := range articles {
		liked, err := h.Articles.HasLike(ctx, a.ID, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load articles failed"})
		}
		l := liked
		items = append(items, articleResp{
			ID: a.ID, UserID: a.UserID, Title: a.Title, Content: a.Content,
			LikeCount: a.LikeCount, Liked: &l,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Delete handles DELETE /v1/teacher/articles/:id.
func (h *ArticleHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid article id"})
	}
	err = h.Articles.Delete(c.Request().Context(), id, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "article not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Like handles POST /v1/articles/:id/like and DELETE of the same path.
// The verb decides the direction; repeating an already-applied direction
// is a no-op that reports the current count.
func (h *ArticleHandler) Like(c echo.Context) error {
	return h.toggle(c, true)
}

// Dislike removes the caller's like.
func (h *ArticleHandler) Dislike(c echo.Context) error {
	return h.toggle(c, false)
}

func (h *ArticleHandler) toggle(c echo.Context, like bool) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid article id"})
	}
	count, err := h.Likes.ToggleLike(c.Request().Context(), id, userID, like)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "article not found"})
	case errors.Is(err, service.ErrWriteConflict):
		// The optimistic retry budget ran out under heavy contention;
		// the client may simply retry.
		return c.JSON(http.StatusConflict, echo.Map{"error": "too much contention, retry"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle like failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"article_id": id,
		"liked":      like,
		"like_count": count,
	})
}
