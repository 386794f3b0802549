// Package postgres implements the durable repositories backed by PostgreSQL.
//
// Owns sessions and their participant records, quizzes and attempts, user
// stats, and (optionally) discussion threads. Membership mutations run in a
// single transaction so the participant set and the derived participants list
// cannot diverge.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	slog.Info("Database SSL mode", "sslmode", extractSSLMode(databaseURL))

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connected", "min_conns", poolCfg.MinConns, "max_conns", poolCfg.MaxConns)
	return pool, nil
}

func extractSSLMode(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "unknown"
	}
	mode := strings.ToLower(u.Query().Get("sslmode"))
	if mode == "" {
		return "prefer (default)"
	}
	return mode
}

func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			host_id TEXT NOT NULL,
			host_name TEXT NOT NULL DEFAULT '',
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			duration_minutes INT NOT NULL,
			max_participants INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			join_code TEXT UNIQUE NOT NULL,
			join_url TEXT NOT NULL,
			state TEXT NOT NULL DEFAULT 'scheduled',
			room_id UUID NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_join_code ON sessions(join_code)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_state ON sessions(state)`,
		`CREATE TABLE IF NOT EXISTS session_participants (
			session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			user_name TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (session_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS quizzes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			topic TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			questions JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_created_at ON quizzes(created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS quiz_attempts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			quiz_id UUID NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			user_name TEXT NOT NULL DEFAULT '',
			answers JSONB NOT NULL,
			score INT NOT NULL,
			max_score INT NOT NULL,
			time_spent_seconds INT NOT NULL DEFAULT 0,
			submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_attempts_quiz_id ON quiz_attempts(quiz_id)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			total_score INT NOT NULL DEFAULT 0,
			quizzes_completed INT NOT NULL DEFAULT 0,
			average_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			streak INT NOT NULL DEFAULT 0,
			last_active TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_total_score ON users(total_score DESC)`,
		`CREATE TABLE IF NOT EXISTS discussions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			topic TEXT NOT NULL,
			author TEXT NOT NULL,
			replies INT NOT NULL DEFAULT 0,
			upvotes INT NOT NULL DEFAULT 0,
			views INT NOT NULL DEFAULT 0,
			pinned BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_active TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_discussions_created_at ON discussions(created_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	slog.Info("Database migrations completed")
	return nil
}
