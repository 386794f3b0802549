package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohilMehra/studysync/internal/domain"
	"github.com/JohilMehra/studysync/internal/joincode"
)

func newTestSessionRepo(t *testing.T) (*SessionRepo, clockwork.Clock) {
	pool := setupTestDB(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewSessionRepo(pool, joincode.New(), domain.NoopNotifier{}, clock), clock
}

func testNewSession(start time.Time) domain.NewSession {
	return domain.NewSession{
		Title:           "Algorithms study group",
		Description:     "Graph traversal week",
		HostID:          "host-1",
		HostName:        "Alice",
		StartTime:       start,
		DurationMinutes: 60,
		MaxParticipants: 5,
	}
}

func TestCreateSession(t *testing.T) {
	repo, clock := newTestSessionRepo(t)
	ctx := context.Background()

	start := clock.Now().UTC().Add(1 * time.Hour)
	id, err := repo.Create(ctx, testNewSession(start))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	s, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms study group", s.Title)
	assert.Equal(t, "host-1", s.HostID)
	assert.WithinDuration(t, start, s.StartTime, time.Second)
	assert.WithinDuration(t, start.Add(60*time.Minute), s.EndTime, time.Second)
	assert.Equal(t, domain.StateScheduled, s.State)
	assert.Len(t, s.JoinCode, joincode.Length)
	assert.Equal(t, "/join/"+s.JoinCode, s.JoinURL)
	assert.Equal(t, id, s.RoomID)
	assert.Empty(t, s.Participants)
}

func TestCreateSession_JoinCodeCollision(t *testing.T) {
	pool := setupTestDB(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// First 16 draws yield AAAAAAAA twice, then every draw yields B.
	calls := 0
	codes := joincode.NewWithSource(func(n int) int {
		calls++
		if calls <= 2*joincode.Length {
			return 0
		}
		return 1
	})
	repo := NewSessionRepo(pool, codes, domain.NoopNotifier{}, clock)

	start := clock.Now().UTC().Add(1 * time.Hour)
	id1, err := repo.Create(ctx, testNewSession(start))
	require.NoError(t, err)
	id2, err := repo.Create(ctx, testNewSession(start))
	require.NoError(t, err)

	s1, err := repo.GetByID(ctx, id1)
	require.NoError(t, err)
	s2, err := repo.GetByID(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAA", s1.JoinCode)
	assert.Equal(t, "BBBBBBBB", s2.JoinCode)
}

func TestGetByJoinCode_NormalizesInput(t *testing.T) {
	repo, clock := newTestSessionRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testNewSession(clock.Now().UTC().Add(time.Hour)))
	require.NoError(t, err)

	s, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	// Lowercase with surrounding whitespace must still resolve.
	found, err := repo.GetByJoinCode(ctx, "  "+strings.ToLower(s.JoinCode)+" ")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
}

func TestGetByJoinCode_NotFound(t *testing.T) {
	repo, _ := newTestSessionRepo(t)

	_, err := repo.GetByJoinCode(context.Background(), "NOPENOPE")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestGetAll_NewestStartFirst(t *testing.T) {
	repo, clock := newTestSessionRepo(t)
	ctx := context.Background()

	early := testNewSession(clock.Now().UTC().Add(1 * time.Hour))
	early.Title = "early"
	late := testNewSession(clock.Now().UTC().Add(2 * time.Hour))
	late.Title = "late"

	earlyID, err := repo.Create(ctx, early)
	require.NoError(t, err)
	_, err = repo.Create(ctx, late)
	require.NoError(t, err)

	require.NoError(t, repo.AddParticipant(ctx, earlyID, "user-1", "Bob", ""))

	sessions, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "late", sessions[0].Title)
	assert.Equal(t, "early", sessions[1].Title)
	assert.Equal(t, []string{"user-1"}, sessions[1].Participants)
	assert.Empty(t, sessions[0].Participants)
}

func TestAddParticipant(t *testing.T) {
	repo, clock := newTestSessionRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testNewSession(clock.Now().UTC().Add(time.Hour)))
	require.NoError(t, err)

	err = repo.AddParticipant(ctx, id, "user-1", "Bob", "https://avatars/bob.png")
	require.NoError(t, err)

	s, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, s.Participants)

	participants, err := repo.GetParticipants(ctx, id)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "user-1", participants[0].UserID)
	assert.Equal(t, "Bob", participants[0].UserName)
	assert.Equal(t, "https://avatars/bob.png", participants[0].AvatarURL)
}

func TestAddParticipant_Idempotent(t *testing.T) {
	repo, clock := newTestSessionRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testNewSession(clock.Now().UTC().Add(time.Hour)))
	require.NoError(t, err)

	require.NoError(t, repo.AddParticipant(ctx, id, "user-1", "Bob", ""))
	require.NoError(t, repo.AddParticipant(ctx, id, "user-1", "Bob", ""))

	s, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, s.Participants)
}

func TestAddParticipant_Full(t *testing.T) {
	repo, clock := newTestSessionRepo(t)
	ctx := context.Background()

	data := testNewSession(clock.Now().UTC().Add(time.Hour))
	data.MaxParticipants = 2
	id, err := repo.Create(ctx, data)
	require.NoError(t, err)

	require.NoError(t, repo.AddParticipant(ctx, id, "user-1", "Bob", ""))
	require.NoError(t, repo.AddParticipant(ctx, id, "user-2", "Carol", ""))

	err = repo.AddParticipant(ctx, id, "user-3", "Dave", "")
	assert.ErrorIs(t, err, domain.ErrSessionFull)

	// Existing member re-joining at capacity still succeeds.
	require.NoError(t, repo.AddParticipant(ctx, id, "user-1", "Bob", ""))
}

func TestAddParticipant_SessionNotFound(t *testing.T) {
	repo, _ := newTestSessionRepo(t)

	err := repo.AddParticipant(context.Background(), uuid.New(), "user-1", "Bob", "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRemoveParticipant(t *testing.T) {
	repo, clock := newTestSessionRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testNewSession(clock.Now().UTC().Add(time.Hour)))
	require.NoError(t, err)

	require.NoError(t, repo.AddParticipant(ctx, id, "user-1", "Bob", ""))
	require.NoError(t, repo.RemoveParticipant(ctx, id, "user-1"))

	s, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, s.Participants)

	// Removing an absent participant is a no-op.
	require.NoError(t, repo.RemoveParticipant(ctx, id, "user-1"))
}

func TestEndSession(t *testing.T) {
	repo, clock := newTestSessionRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testNewSession(clock.Now().UTC().Add(time.Hour)))
	require.NoError(t, err)

	err = repo.EndSession(ctx, id, "host-1")
	require.NoError(t, err)

	s, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StateEnded, s.State)

	// Ending twice is a no-op.
	require.NoError(t, repo.EndSession(ctx, id, "host-1"))
}

func TestEndSession_NotHost(t *testing.T) {
	repo, clock := newTestSessionRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testNewSession(clock.Now().UTC().Add(time.Hour)))
	require.NoError(t, err)

	err = repo.EndSession(ctx, id, "someone-else")
	assert.ErrorIs(t, err, domain.ErrNotHost)
}

func TestEndSession_NotFound(t *testing.T) {
	repo, _ := newTestSessionRepo(t)

	err := repo.EndSession(context.Background(), uuid.New(), "host-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAdvanceStates(t *testing.T) {
	repo, clock := newTestSessionRepo(t)
	ctx := context.Background()

	now := clock.Now().UTC()

	running := testNewSession(now.Add(-10 * time.Minute)) // started, not over
	over := testNewSession(now.Add(-2 * time.Hour))       // past its end time
	future := testNewSession(now.Add(1 * time.Hour))

	runningID, err := repo.Create(ctx, running)
	require.NoError(t, err)
	overID, err := repo.Create(ctx, over)
	require.NoError(t, err)
	futureID, err := repo.Create(ctx, future)
	require.NoError(t, err)

	started, ended, err := repo.AdvanceStates(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), started)
	assert.Equal(t, int64(1), ended)

	for id, want := range map[uuid.UUID]domain.SessionState{
		runningID: domain.StateActive,
		overID:    domain.StateEnded,
		futureID:  domain.StateScheduled,
	} {
		s, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, s.State)
	}

	// Second sweep at the same instant changes nothing.
	started, ended, err = repo.AdvanceStates(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, started)
	assert.Zero(t, ended)
}
