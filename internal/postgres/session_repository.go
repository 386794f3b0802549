package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/JohilMehra/studysync/internal/domain"
	"github.com/JohilMehra/studysync/internal/joincode"
	"github.com/JohilMehra/studysync/internal/metrics"
)

// maxJoinCodeAttempts bounds collision-triggered regenerations. After the last
// attempt the insert proceeds with the final code; the UNIQUE constraint on
// join_code then rejects a still-colliding insert instead of storing a duplicate.
const maxJoinCodeAttempts = 10

// sessionColumns must match the Scan order in scanSession.
const sessionColumns = `id, title, description, host_id, host_name, start_time, end_time,
	duration_minutes, max_participants, created_at, join_code, join_url, state, room_id`

// SessionRepo implements domain.SessionRepository backed by PostgreSQL.
type SessionRepo struct {
	pool     *pgxpool.Pool
	codes    *joincode.Generator
	notifier domain.Notifier
	clock    clockwork.Clock
}

func NewSessionRepo(pool *pgxpool.Pool, codes *joincode.Generator, notifier domain.Notifier, clock clockwork.Clock) *SessionRepo {
	return &SessionRepo{pool: pool, codes: codes, notifier: notifier, clock: clock}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var state string
	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.HostID, &s.HostName, &s.StartTime, &s.EndTime,
		&s.DurationMinutes, &s.MaxParticipants, &s.CreatedAt, &s.JoinCode, &s.JoinURL,
		&state, &s.RoomID,
	)
	if err != nil {
		return nil, err
	}
	s.State = domain.SessionState(state)
	s.Participants = []string{}
	return &s, nil
}

func (r *SessionRepo) Create(ctx context.Context, data domain.NewSession) (uuid.UUID, error) {
	code, err := r.uniqueJoinCode(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	now := r.clock.Now().UTC()
	endTime := data.StartTime.Add(time.Duration(data.DurationMinutes) * time.Minute)

	_, err = r.pool.Exec(ctx, `
		INSERT INTO sessions (id, title, description, host_id, host_name, start_time, end_time,
			duration_minutes, max_participants, created_at, join_code, join_url, state, room_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, id, data.Title, data.Description, data.HostID, data.HostName, data.StartTime, endTime,
		data.DurationMinutes, data.MaxParticipants, now, code, "/join/"+code,
		string(domain.StateScheduled), id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert session: %w", err)
	}

	metrics.SessionsCreatedTotal.Inc()
	r.notifier.SessionChanged(ctx, id)
	return id, nil
}

// uniqueJoinCode generates a code and regenerates on collision, up to
// maxJoinCodeAttempts. The final code is returned even if still colliding.
func (r *SessionRepo) uniqueJoinCode(ctx context.Context) (string, error) {
	code := r.codes.Generate()
	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		var exists bool
		err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM sessions WHERE join_code = $1)`, code).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("failed to check join code: %w", err)
		}
		if !exists {
			return code, nil
		}
		metrics.JoinCodeRetriesTotal.Inc()
		code = r.codes.Generate()
	}
	slog.Warn("Join code still colliding after max attempts, proceeding with last code",
		"attempts", maxJoinCodeAttempts)
	return code, nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	s, err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if s.Participants, err = r.participantIDs(ctx, id); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepo) GetByJoinCode(ctx context.Context, code string) (*domain.Session, error) {
	// Generated codes are always uppercase; caller input may not be.
	code = joincode.Normalize(code)

	s, err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE join_code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by join code: %w", err)
	}

	if s.Participants, err = r.participantIDs(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepo) GetAll(ctx context.Context) ([]*domain.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY start_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	byID := make(map[uuid.UUID]*domain.Session)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	ids := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}

	prows, err := r.pool.Query(ctx, `
		SELECT session_id, user_id FROM session_participants
		WHERE session_id = ANY($1) ORDER BY joined_at
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var sessionID uuid.UUID
		var userID string
		if err := prows.Scan(&sessionID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if s, ok := byID[sessionID]; ok {
			s.Participants = append(s.Participants, userID)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepo) participantIDs(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM session_participants
		WHERE session_id = $1 ORDER BY joined_at
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddParticipant applies the membership rule and inserts the participant record
// in one transaction. The session row is locked so concurrent joins cannot
// overshoot the capacity.
func (r *SessionRepo) AddParticipant(ctx context.Context, sessionID uuid.UUID, userID, userName, avatarURL string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var maxParticipants int
	err = tx.QueryRow(ctx,
		`SELECT max_participants FROM sessions WHERE id = $1 FOR UPDATE`, sessionID).
		Scan(&maxParticipants)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock session: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT user_id FROM session_participants
		WHERE session_id = $1 ORDER BY joined_at
	`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}
	members := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate members: %w", err)
	}

	decision := domain.CanJoin(&domain.Session{
		MaxParticipants: maxParticipants,
		Participants:    members,
	}, userID)

	metrics.SessionJoinsTotal.WithLabelValues(decision.String()).Inc()

	switch decision {
	case domain.AlreadyMember:
		// Idempotent join: success without mutation.
		return nil
	case domain.Full:
		return domain.ErrSessionFull
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO session_participants (session_id, user_id, user_name, avatar_url, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sessionID, userID, userName, avatarURL, r.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit join: %w", err)
	}

	r.notifier.ParticipantsChanged(ctx, sessionID)
	r.notifier.SessionChanged(ctx, sessionID)
	return nil
}

func (r *SessionRepo) RemoveParticipant(ctx context.Context, sessionID uuid.UUID, userID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM session_participants WHERE session_id = $1 AND user_id = $2
	`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	if tag.RowsAffected() > 0 {
		r.notifier.ParticipantsChanged(ctx, sessionID)
		r.notifier.SessionChanged(ctx, sessionID)
	}
	return nil
}

func (r *SessionRepo) GetParticipants(ctx context.Context, sessionID uuid.UUID) ([]domain.Participant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, user_name, avatar_url, joined_at FROM session_participants
		WHERE session_id = $1 ORDER BY joined_at
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := []domain.Participant{}
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.UserID, &p.UserName, &p.AvatarURL, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *SessionRepo) EndSession(ctx context.Context, sessionID uuid.UUID, hostID string) error {
	var storedHostID, state string
	err := r.pool.QueryRow(ctx,
		`SELECT host_id, state FROM sessions WHERE id = $1`, sessionID).
		Scan(&storedHostID, &state)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	if storedHostID != hostID {
		return domain.ErrNotHost
	}
	if domain.SessionState(state) == domain.StateEnded {
		return nil
	}

	_, err = r.pool.Exec(ctx,
		`UPDATE sessions SET state = $1 WHERE id = $2`, string(domain.StateEnded), sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	metrics.SessionStateTransitionsTotal.WithLabelValues(string(domain.StateEnded)).Inc()
	r.notifier.SessionChanged(ctx, sessionID)
	return nil
}

// AdvanceStates transitions scheduled sessions whose start time has passed to
// active, and active sessions whose end time has passed to ended.
func (r *SessionRepo) AdvanceStates(ctx context.Context, now time.Time) (started, ended int64, err error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions SET state = $1 WHERE state = $2 AND start_time <= $3 AND end_time > $3
	`, string(domain.StateActive), string(domain.StateScheduled), now)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to activate sessions: %w", err)
	}
	started = tag.RowsAffected()

	tag, err = r.pool.Exec(ctx, `
		UPDATE sessions SET state = $1 WHERE state != $1 AND end_time <= $2
	`, string(domain.StateEnded), now)
	if err != nil {
		return started, 0, fmt.Errorf("failed to end sessions: %w", err)
	}
	ended = tag.RowsAffected()

	if started > 0 {
		metrics.SessionStateTransitionsTotal.WithLabelValues(string(domain.StateActive)).Add(float64(started))
	}
	if ended > 0 {
		metrics.SessionStateTransitionsTotal.WithLabelValues(string(domain.StateEnded)).Add(float64(ended))
	}
	return started, ended, nil
}
