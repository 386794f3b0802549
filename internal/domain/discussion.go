package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DiscussionThread struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Topic      string    `json:"topic"`
	Author     string    `json:"author"`
	Replies    int       `json:"replies"`
	Upvotes    int       `json:"upvotes"`
	Views      int       `json:"views"`
	Pinned     bool      `json:"pinned"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

// NewThread carries the caller-supplied fields for thread creation.
type NewThread struct {
	Title   string
	Content string
	Topic   string
	Author  string
}

// DiscussionRepository abstracts thread storage. The memory implementation is a
// deliberately volatile cache (threads vanish on restart); the postgres one is
// durable. Both satisfy the same contract so tests substitute explicitly.
type DiscussionRepository interface {
	Create(ctx context.Context, data NewThread) (*DiscussionThread, error)
	List(ctx context.Context) ([]*DiscussionThread, error)
}
