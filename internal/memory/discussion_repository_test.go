package memory

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohilMehra/studysync/internal/domain"
)

func TestCreateAndList(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := NewDiscussionRepo(clock)
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.NewThread{Title: "first", Content: "a", Topic: "t", Author: "Bob"})
	require.NoError(t, err)
	assert.Zero(t, first.Replies)
	assert.False(t, first.Pinned)
	assert.Equal(t, clock.Now().UTC(), first.CreatedAt)

	clock.Advance(time.Minute)
	_, err = repo.Create(ctx, domain.NewThread{Title: "second", Content: "b", Topic: "t", Author: "Carol"})
	require.NoError(t, err)

	threads, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "second", threads[0].Title)
	assert.Equal(t, "first", threads[1].Title)
}

func TestList_ReturnsCopies(t *testing.T) {
	clock := clockwork.NewFakeClock()
	repo := NewDiscussionRepo(clock)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.NewThread{Title: "original", Content: "a", Topic: "t", Author: "Bob"})
	require.NoError(t, err)

	threads, err := repo.List(ctx)
	require.NoError(t, err)
	threads[0].Title = "mutated"

	again, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Title)
}

func TestList_Empty(t *testing.T) {
	repo := NewDiscussionRepo(clockwork.NewFakeClock())

	threads, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, threads)
}
