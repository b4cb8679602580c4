// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-lecture-reservation/internal/handler"
	"github.com/iliyamo/live-lecture-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access only issues a new
	// access token and leaves the refresh token in place.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh token in the body or a bearer token
	// and does not require the JWT middleware.
	g.POST("/logout", a.Logout)
	e.POST("/v1/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("TEACHER", "STUDENT"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints.  Guests can
// inspect open lectures, narrow them to one teacher, and search by title
// before creating an account.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/lectures", p.BrowseLectures)
	e.GET("/v1/lectures/search", p.SearchLectures)
	e.GET("/v1/teachers/:id/lectures", p.BrowseTeacherLectures)
}

// RegisterLectures wires the teacher-side lecture management and the
// student-side booking endpoints.  Both groups sit behind JWTAuth; the
// role middleware then narrows each surface to its audience.
func RegisterLectures(e *echo.Echo, t *handler.TeacherHandler, s *handler.StudentHandler, jwtSecret string) {
	teacher := e.Group("/v1/teacher")
	teacher.Use(middleware.JWTAuth(jwtSecret))
	teacher.Use(middleware.RequireRole("TEACHER"))
	teacher.POST("/lectures", t.CreateLecture)
	teacher.GET("/lectures", t.ListLectures)
	teacher.GET("/lectures/:id", t.GetLecture)
	teacher.DELETE("/lectures/:id", t.DeleteLecture)
	teacher.PATCH("/lectures/:id/on-air", t.SetOnAir)
	teacher.GET("/lectures/:id/reservations", t.ListLectureReservations)

	student := e.Group("/v1")
	student.Use(middleware.JWTAuth(jwtSecret))
	student.Use(middleware.RequireRole("STUDENT"))
	student.POST("/lectures/:id/reservations", s.Book)
	student.GET("/my-reservations", s.ListReservations)
	student.DELETE("/reservations/:id", s.Cancel)
}

// RegisterHome wires the merged occurrence feed and its history for any
// authenticated user; teachers and students see their respective sides of
// the same feed.
func RegisterHome(e *echo.Echo, h *handler.HomeHandler, jwtSecret string) {
	g := e.Group("/v1/home")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("TEACHER", "STUDENT"))
	g.GET("", h.Home)
	g.GET("/history", h.History)
}

// RegisterArticles wires teacher notices and their like toggles.
func RegisterArticles(e *echo.Echo, a *handler.ArticleHandler, jwtSecret string) {
	teacher := e.Group("/v1/teacher/articles")
	teacher.Use(middleware.JWTAuth(jwtSecret))
	teacher.Use(middleware.RequireRole("TEACHER"))
	teacher.POST("", a.Create)
	teacher.DELETE("/:id", a.Delete)

	shared := e.Group("/v1")
	shared.Use(middleware.JWTAuth(jwtSecret))
	shared.Use(middleware.RequireRole("TEACHER", "STUDENT"))
	shared.GET("/teachers/:id/articles", a.ListByTeacher)
	shared.POST("/articles/:id/like", a.Like)
	shared.DELETE("/articles/:id/like", a.Dislike)
}
