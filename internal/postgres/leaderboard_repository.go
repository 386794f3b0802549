package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JohilMehra/studysync/internal/domain"
)

// LeaderboardRepo implements domain.LeaderboardRepository over the users table.
type LeaderboardRepo struct {
	pool *pgxpool.Pool
}

func NewLeaderboardRepo(pool *pgxpool.Pool) *LeaderboardRepo {
	return &LeaderboardRepo{pool: pool}
}

func (r *LeaderboardRepo) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, total_score, quizzes_completed, average_score, streak, last_active
		FROM users ORDER BY total_score DESC, last_active DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var e domain.LeaderboardEntry
		err := rows.Scan(&e.UserID, &e.Name, &e.TotalScore, &e.QuizzesCompleted,
			&e.AverageScore, &e.Streak, &e.LastActive)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *LeaderboardRepo) GetStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	var s domain.UserStats
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, total_score, quizzes_completed, average_score, streak, last_active
		FROM users WHERE id = $1
	`, userID).Scan(&s.UserID, &s.Name, &s.TotalScore, &s.QuizzesCompleted,
		&s.AverageScore, &s.Streak, &s.LastActive)
	if errors.Is(err, pgx.ErrNoRows) {
		// New users simply have no stats yet.
		return &domain.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return &s, nil
}
