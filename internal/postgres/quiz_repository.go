package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/JohilMehra/studysync/internal/domain"
)

// QuizRepo implements domain.QuizRepository backed by PostgreSQL. Questions and
// answer sheets are stored as JSONB.
type QuizRepo struct {
	pool  *pgxpool.Pool
	clock clockwork.Clock
}

func NewQuizRepo(pool *pgxpool.Pool, clock clockwork.Clock) *QuizRepo {
	return &QuizRepo{pool: pool, clock: clock}
}

func (r *QuizRepo) Save(ctx context.Context, quiz *domain.Quiz) (uuid.UUID, error) {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal questions: %w", err)
	}

	id := uuid.New()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO quizzes (id, owner_id, title, topic, difficulty, questions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, quiz.OwnerID, quiz.Title, quiz.Topic, quiz.Difficulty, questions, r.clock.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert quiz: %w", err)
	}
	return id, nil
}

func (r *QuizRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	quiz, err := scanQuiz(r.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, topic, difficulty, questions, created_at
		FROM quizzes WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (r *QuizRepo) List(ctx context.Context) ([]*domain.Quiz, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, title, topic, difficulty, questions, created_at
		FROM quizzes ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []*domain.Quiz{}
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func scanQuiz(row rowScanner) (*domain.Quiz, error) {
	var q domain.Quiz
	var questions []byte
	err := row.Scan(&q.ID, &q.OwnerID, &q.Title, &q.Topic, &q.Difficulty, &questions, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	return &q, nil
}

// SaveAttempt stores the attempt and folds its percentage score into the
// user's running stats in the same transaction. A first attempt creates the
// stats row with a streak of 1.
func (r *QuizRepo) SaveAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	now := r.clock.Now().UTC()
	attemptID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO quiz_attempts (id, quiz_id, user_id, user_name, answers, score, max_score,
			time_spent_seconds, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, attemptID, attempt.QuizID, attempt.UserID, attempt.UserName, answers,
		attempt.Score, attempt.MaxScore, attempt.TimeSpentSeconds, now)
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}

	stats := domain.UserStats{UserID: attempt.UserID, Name: attempt.UserName}
	err = tx.QueryRow(ctx, `
		SELECT total_score, quizzes_completed, average_score, streak
		FROM users WHERE id = $1 FOR UPDATE
	`, attempt.UserID).Scan(&stats.TotalScore, &stats.QuizzesCompleted, &stats.AverageScore, &stats.Streak)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to load user stats: %w", err)
	}

	percentage := 0.0
	if attempt.MaxScore > 0 {
		percentage = float64(attempt.Score) / float64(attempt.MaxScore) * 100
	}
	newAverage := (stats.AverageScore*float64(stats.QuizzesCompleted) + percentage) /
		float64(stats.QuizzesCompleted+1)
	newAverage = math.Round(newAverage*100) / 100

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, name, total_score, quizzes_completed, average_score, streak, last_active)
		VALUES ($1, $2, $3, 1, $4, 1, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			total_score = users.total_score + EXCLUDED.total_score,
			quizzes_completed = users.quizzes_completed + 1,
			average_score = $4,
			streak = users.streak + 1,
			last_active = EXCLUDED.last_active
	`, attempt.UserID, attempt.UserName, attempt.Score, newAverage, now)
	if err != nil {
		return fmt.Errorf("failed to update user stats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit attempt: %w", err)
	}
	attempt.ID = attemptID
	attempt.SubmittedAt = now
	return nil
}
