package server

import (
	"backend-routefeel/internal/auth"
	"backend-routefeel/internal/club"
	"backend-routefeel/internal/config"
	"backend-routefeel/internal/feed"
	"backend-routefeel/internal/leaderboard"
	"backend-routefeel/internal/media"
	"backend-routefeel/internal/rating"
	"backend-routefeel/internal/stream"
	"backend-routefeel/internal/trip"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Board  *leaderboard.Board
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
		Board:  leaderboard.NewBoard(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))

	// Ratings live under /trips alongside the trip routes they annotate.
	trips := s.App.Group("/trips")
	trip.RegisterRoutes(trips, trip.NewService(s.DB, s.Stream, s.Board), jwtMiddleware)
	rating.RegisterRoutes(trips, rating.NewService(s.DB), jwtMiddleware)

	feed.RegisterRoutes(s.App.Group("/feed"), feed.NewService(s.DB), jwtMiddleware)
	club.RegisterRoutes(s.App.Group("/clubs"), club.NewService(s.DB), jwtMiddleware)
	media.RegisterRoutes(s.App.Group("/media"), media.NewService(s.DB, s.Cfg.MediaBaseURL), jwtMiddleware)
	leaderboard.RegisterRoutes(s.App.Group("/leaderboard"), s.Board)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
