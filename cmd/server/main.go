package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/moviebook/movie-ticket-booking/internal/config"
	"github.com/moviebook/movie-ticket-booking/internal/database"
	"github.com/moviebook/movie-ticket-booking/internal/handler"
	"github.com/moviebook/movie-ticket-booking/internal/middleware"
	"github.com/moviebook/movie-ticket-booking/internal/queue"
	"github.com/moviebook/movie-ticket-booking/internal/repository"
	"github.com/moviebook/movie-ticket-booking/internal/router"
)

func main() {
	// .env is optional; in containerized deployments the environment is
	// injected directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: when unreachable both the response cache and the
	// rate limiter degrade to pass-through middleware.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	movieRepo := repository.NewMovieRepo(db)
	theaterRepo := repository.NewTheaterRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	showRepo := repository.NewShowRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	couponRepo := repository.NewCouponRepo(db)

	catalogHandler := handler.NewCatalogHandler(movieRepo)
	venueHandler := handler.NewVenueHandler(theaterRepo)
	showHandler := handler.NewShowHandler(showRepo, seatRepo, bookingRepo)
	bookingHandler := handler.NewBookingHandler(
		showRepo, seatRepo, bookingRepo, paymentRepo, couponRepo,
		cfg.ConvenienceFeeCents,
		time.Duration(cfg.BookingTTLMin)*time.Minute,
		time.Duration(cfg.CancelWindowHours)*time.Hour,
		cfg.MaxSeatsPerBooking,
	)
	paymentHandler := handler.NewPaymentHandler(showRepo, bookingRepo, paymentRepo, bookingHandler)
	couponHandler := handler.NewCouponHandler(couponRepo)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, catalogHandler, venueHandler, showHandler, cacheMW)
	router.RegisterCustomer(e, bookingHandler, paymentHandler, couponHandler, cfg.JWTSecret)

	// Deliver notification events in the background for the lifetime of
	// the process.
	go queue.StartNotificationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
