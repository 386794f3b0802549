package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/JohilMehra/studysync/internal/domain"
)

// DiscussionRepo is the durable domain.DiscussionRepository implementation.
type DiscussionRepo struct {
	pool  *pgxpool.Pool
	clock clockwork.Clock
}

func NewDiscussionRepo(pool *pgxpool.Pool, clock clockwork.Clock) *DiscussionRepo {
	return &DiscussionRepo{pool: pool, clock: clock}
}

func (r *DiscussionRepo) Create(ctx context.Context, data domain.NewThread) (*domain.DiscussionThread, error) {
	now := r.clock.Now().UTC()
	thread := &domain.DiscussionThread{
		ID:         uuid.New(),
		Title:      data.Title,
		Content:    data.Content,
		Topic:      data.Topic,
		Author:     data.Author,
		CreatedAt:  now,
		LastActive: now,
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO discussions (id, title, content, topic, author, replies, upvotes, views,
			pinned, created_at, last_active)
		VALUES ($1, $2, $3, $4, $5, 0, 0, 0, FALSE, $6, $6)
	`, thread.ID, thread.Title, thread.Content, thread.Topic, thread.Author, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert thread: %w", err)
	}
	return thread, nil
}

func (r *DiscussionRepo) List(ctx context.Context) ([]*domain.DiscussionThread, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, topic, author, replies, upvotes, views, pinned,
			created_at, last_active
		FROM discussions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	threads := []*domain.DiscussionThread{}
	for rows.Next() {
		var t domain.DiscussionThread
		err := rows.Scan(&t.ID, &t.Title, &t.Content, &t.Topic, &t.Author, &t.Replies,
			&t.Upvotes, &t.Views, &t.Pinned, &t.CreatedAt, &t.LastActive)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, &t)
	}
	return threads, rows.Err()
}
