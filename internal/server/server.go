// Package server exposes the HTTP and websocket surface.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/JohilMehra/studysync/internal/config"
	"github.com/JohilMehra/studysync/internal/domain"
	apperrors "github.com/JohilMehra/studysync/internal/errors"
	"github.com/JohilMehra/studysync/internal/live"
	"github.com/JohilMehra/studysync/internal/redis"
)

type Server struct {
	echo           *echo.Echo
	config         *config.Config
	app            domain.AppService
	feed           *live.Feed
	postgresHealth postgresHealthChecker
	redisHealth    redisHealthChecker
	startTime      time.Time
}

func NewServer(cfg *config.Config, svc domain.AppService, feed *live.Feed, pool *pgxpool.Pool, redisClient *redis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:           e,
		config:         cfg,
		app:            svc,
		feed:           feed,
		postgresHealth: pool,
		redisHealth:    redisClient,
		startTime:      time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
