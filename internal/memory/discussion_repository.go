// Package memory holds volatile in-process stores. Contents are lost on
// restart, which is acceptable for throwaway deployments and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/JohilMehra/studysync/internal/domain"
)

// DiscussionRepo is an in-memory domain.DiscussionRepository. Threads live in
// a slice ordered newest first.
type DiscussionRepo struct {
	mu      sync.RWMutex
	threads []*domain.DiscussionThread
	clock   clockwork.Clock
}

func NewDiscussionRepo(clock clockwork.Clock) *DiscussionRepo {
	return &DiscussionRepo{clock: clock}
}

func (r *DiscussionRepo) Create(_ context.Context, data domain.NewThread) (*domain.DiscussionThread, error) {
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

	r.mu.Lock()
	r.threads = append([]*domain.DiscussionThread{thread}, r.threads...)
	r.mu.Unlock()

	copied := *thread
	return &copied, nil
}

func (r *DiscussionRepo) List(_ context.Context) ([]*domain.DiscussionThread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.DiscussionThread, len(r.threads))
	for i, t := range r.threads {
		copied := *t
		out[i] = &copied
	}
	return out, nil
}

var _ domain.DiscussionRepository = (*DiscussionRepo)(nil)
