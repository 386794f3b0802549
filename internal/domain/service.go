package domain

import (
	"context"

	"github.com/google/uuid"
)

// SessionLink is the shareable handle returned on session creation.
type SessionLink struct {
	SessionID uuid.UUID `json:"sessionId"`
	JoinCode  string    `json:"joinCode"`
	JoinURL   string    `json:"joinURL"`
}

// JoinResult points a joined user at the session and its media room.
type JoinResult struct {
	SessionID uuid.UUID `json:"sessionId"`
	RoomID    uuid.UUID `json:"roomId"`
}

// AppService is the application layer contract — handlers route all operations through here.
type AppService interface {
	CreateSessionWithLink(ctx context.Context, data NewSession) (*SessionLink, error)
	JoinSessionByCode(ctx context.Context, code, userID, userName, avatarURL string) (*JoinResult, error)
	JoinAndEnterRoom(ctx context.Context, code, userID, userName, avatarURL, mediaUID string) (*JoinResult, error)
	LeaveSession(ctx context.Context, sessionID uuid.UUID, userID string) error
	EndSession(ctx context.Context, sessionID uuid.UUID, hostID string) error
	Sessions(ctx context.Context) ([]*Session, error)
	Session(ctx context.Context, id uuid.UUID) (*Session, error)
	Participants(ctx context.Context, sessionID uuid.UUID) ([]Participant, error)

	EnterRoom(ctx context.Context, roomID uuid.UUID, userID, userName, avatarURL, mediaUID string) error
	UpdatePresence(ctx context.Context, roomID uuid.UUID, userID string, update PresenceUpdate) error
	LeaveRoom(ctx context.Context, roomID uuid.UUID, userID string) error
	RoomPresence(ctx context.Context, roomID uuid.UUID) ([]Presence, error)

	SaveQuiz(ctx context.Context, quiz *Quiz) (uuid.UUID, error)
	Quiz(ctx context.Context, id uuid.UUID) (*Quiz, error)
	Quizzes(ctx context.Context) ([]*Quiz, error)
	SubmitAttempt(ctx context.Context, attempt *QuizAttempt) error
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	UserStats(ctx context.Context, userID string) (*UserStats, error)

	CreateThread(ctx context.Context, data NewThread) (*DiscussionThread, error)
	Threads(ctx context.Context) ([]*DiscussionThread, error)

	AnswerDoubt(ctx context.Context, question string) (string, error)
	GenerateQuiz(ctx context.Context, topic, difficulty string, numQuestions int) (*Quiz, error)
}
