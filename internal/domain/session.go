package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionState is the lifecycle state of a study session.
// Transitions: scheduled -> active (start time reached),
// active -> ended (end time reached or host ends early).
type SessionState string

const (
	StateScheduled SessionState = "scheduled"
	StateActive    SessionState = "active"
	StateEnded     SessionState = "ended"
)

type Session struct {
	ID              uuid.UUID    `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	HostID          string       `json:"hostId"`
	HostName        string       `json:"hostName"`
	StartTime       time.Time    `json:"startTime"`
	EndTime         time.Time    `json:"endTime"`
	DurationMinutes int          `json:"duration"`
	MaxParticipants int          `json:"maxParticipants"`
	CreatedAt       time.Time    `json:"createdAt"`
	JoinCode        string       `json:"joinCode"`
	JoinURL         string       `json:"joinURL"`
	Participants    []string     `json:"participants"`
	State           SessionState `json:"state"`
	RoomID          uuid.UUID    `json:"roomId"`
}

// NewSession carries the host-supplied fields for session creation.
// EndTime, join code, state and room id are derived by the repository.
type NewSession struct {
	Title           string
	Description     string
	HostID          string
	HostName        string
	StartTime       time.Time
	DurationMinutes int
	MaxParticipants int
}

type Participant struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	AvatarURL string    `json:"userAvatar,omitempty"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// SessionRepository owns persistence of sessions and their participant records.
// Membership mutations are transactional: the participant set and the derived
// participants list can never diverge.
type SessionRepository interface {
	Create(ctx context.Context, data NewSession) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	GetByJoinCode(ctx context.Context, code string) (*Session, error)
	GetAll(ctx context.Context) ([]*Session, error)

	AddParticipant(ctx context.Context, sessionID uuid.UUID, userID, userName, avatarURL string) error
	RemoveParticipant(ctx context.Context, sessionID uuid.UUID, userID string) error
	GetParticipants(ctx context.Context, sessionID uuid.UUID) ([]Participant, error)

	EndSession(ctx context.Context, sessionID uuid.UUID, hostID string) error
	AdvanceStates(ctx context.Context, now time.Time) (started, ended int64, err error)
}
