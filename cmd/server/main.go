package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-lecture-reservation/internal/config"
	"github.com/iliyamo/live-lecture-reservation/internal/database"
	"github.com/iliyamo/live-lecture-reservation/internal/handler"
	"github.com/iliyamo/live-lecture-reservation/internal/middleware"
	"github.com/iliyamo/live-lecture-reservation/internal/queue"
	"github.com/iliyamo/live-lecture-reservation/internal/repository"
	"github.com/iliyamo/live-lecture-reservation/internal/router"
	"github.com/iliyamo/live-lecture-reservation/internal/service"
	"github.com/iliyamo/live-lecture-reservation/internal/store"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	e := echo.New()

	// Redis backs the token-bucket rate limiter and the response cache.
	// A nil client disables both and the server runs without them.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Repositories over the shared pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	lectures := repository.NewLectureRepo(db)
	reservations := repository.NewReservationRepo(db)
	articles := repository.NewArticleRepo(db)

	// Transactional stores and the services on top of them.
	bookings := service.NewReservationService(store.NewBookingStore(db), nil, cfg.Zone)
	feed := service.NewHomeService(store.NewFeedStore(db), nil, cfg.Zone)
	likes := service.NewArticleService(store.NewArticleStore(db))

	authH := handler.NewAuthHandler(cfg, users, tokens)
	teacherH := handler.NewTeacherHandler(cfg, lectures, reservations)
	studentH := handler.NewStudentHandler(cfg, bookings, reservations, lectures, users)
	homeH := handler.NewHomeHandler(feed)
	articleH := handler.NewArticleHandler(articles, likes)
	publicH := handler.NewPublicHandler(cfg, lectures)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH)
	router.RegisterLectures(e, teacherH, studentH, cfg.JWTSecret)
	router.RegisterHome(e, homeH, cfg.JWTSecret)
	router.RegisterArticles(e, articleH, cfg.JWTSecret)

	// The consumer reconnects forever in its own goroutine; a broker
	// outage never takes the API down.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
