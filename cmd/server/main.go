package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/JohilMehra/studysync/internal/app"
	"github.com/JohilMehra/studysync/internal/config"
	"github.com/JohilMehra/studysync/internal/domain"
	"github.com/JohilMehra/studysync/internal/gemini"
	"github.com/JohilMehra/studysync/internal/joincode"
	"github.com/JohilMehra/studysync/internal/live"
	"github.com/JohilMehra/studysync/internal/logging"
	"github.com/JohilMehra/studysync/internal/memory"
	"github.com/JohilMehra/studysync/internal/postgres"
	"github.com/JohilMehra/studysync/internal/redis"
	"github.com/JohilMehra/studysync/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		slog.Error("Redis ping failed", "error", err)
		os.Exit(1)
	}

	return client
}

func runGracefulShutdown(srv *server.Server, reconciler *app.StateReconciler, feed *live.Feed, cancel context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		reconciler.Stop()
		feed.Stop()
		cancel()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(cfg)
	defer func() { _ = redisClient.Close() }()

	// Background goroutines stop when this context is cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := redis.NewPubSub(redisClient)
	presenceStore := redis.NewPresenceStore(redisClient, clock, notifier)
	sessionRepo := postgres.NewSessionRepo(pool, joincode.New(), notifier, clock)
	quizRepo := postgres.NewQuizRepo(pool, clock)
	leaderboardRepo := postgres.NewLeaderboardRepo(pool)

	var discussionRepo domain.DiscussionRepository
	if cfg.DiscussionStore == "memory" {
		discussionRepo = memory.NewDiscussionRepo(clock)
	} else {
		discussionRepo = postgres.NewDiscussionRepo(pool, clock)
	}

	tutor := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	appSvc := app.NewService(sessionRepo, presenceStore, quizRepo, leaderboardRepo, discussionRepo, tutor, clock)

	reconciler := app.NewStateReconciler(sessionRepo, notifier.SessionsListChanged, clock)
	go reconciler.Start(ctx)

	feed := live.NewFeed(notifier, app.NewLiveSnapshots(appSvc))
	feed.Start(ctx)

	srv := server.NewServer(cfg, appSvc, feed, pool, redisClient)

	done := runGracefulShutdown(srv, reconciler, feed, cancel)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
