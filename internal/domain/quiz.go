package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type Quiz struct {
	ID         uuid.UUID  `json:"id"`
	OwnerID    string     `json:"ownerId"`
	Title      string     `json:"title"`
	Topic      string     `json:"topic"`
	Difficulty string     `json:"difficulty"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type QuizAttempt struct {
	ID               uuid.UUID `json:"id"`
	QuizID           uuid.UUID `json:"quizId"`
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName"`
	Answers          []int     `json:"answers"`
	Score            int       `json:"score"`
	MaxScore         int       `json:"maxScore"`
	TimeSpentSeconds int       `json:"timeSpent"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// UserStats backs the leaderboard. AverageScore is a running average of
// per-attempt percentage scores, rounded to two decimals.
type UserStats struct {
	UserID           string    `json:"userId"`
	Name             string    `json:"userName"`
	TotalScore       int       `json:"score"`
	QuizzesCompleted int       `json:"quizzesCompleted"`
	AverageScore     float64   `json:"averageScore"`
	Streak           int       `json:"streak"`
	LastActive       time.Time `json:"lastActive"`
}

// LeaderboardEntry is a ranked view over UserStats.
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	UserStats
}

// QuizRepository owns quiz and attempt persistence. SaveAttempt applies the
// attempt's score to the user's stats in the same transaction.
type QuizRepository interface {
	Save(ctx context.Context, quiz *Quiz) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error)
	List(ctx context.Context) ([]*Quiz, error)
	SaveAttempt(ctx context.Context, attempt *QuizAttempt) error
}

// LeaderboardRepository reads ranked user stats.
type LeaderboardRepository interface {
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetStats(ctx context.Context, userID string) (*UserStats, error)
}
