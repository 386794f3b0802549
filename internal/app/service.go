// Package app holds the application service and background jobs.
package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/JohilMehra/studysync/internal/domain"
)

// Service is the application facade over the repositories and the AI client.
// Handlers go through here; repositories never call each other.
type Service struct {
	sessions    domain.SessionRepository
	presence    domain.PresenceStore
	quizzes     domain.QuizRepository
	leaderboard domain.LeaderboardRepository
	discussions domain.DiscussionRepository
	tutor       domain.TutorService
	clock       clockwork.Clock
}

func NewService(
	sessions domain.SessionRepository,
	presence domain.PresenceStore,
	quizzes domain.QuizRepository,
	leaderboard domain.LeaderboardRepository,
	discussions domain.DiscussionRepository,
	tutor domain.TutorService,
	clock clockwork.Clock,
) *Service {
	return &Service{
		sessions:    sessions,
		presence:    presence,
		quizzes:     quizzes,
		leaderboard: leaderboard,
		discussions: discussions,
		tutor:       tutor,
		clock:       clock,
	}
}

var _ domain.AppService = (*Service)(nil)

// CreateSessionWithLink creates a session and reads it back to return the
// generated join handle. A read-back miss means the write did not land.
func (s *Service) CreateSessionWithLink(ctx context.Context, data domain.NewSession) (*domain.SessionLink, error) {
	id, err := s.sessions.Create(ctx, data)
	if err != nil {
		return nil, err
	}

	created, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, domain.ErrSessionCreation
	}

	return &domain.SessionLink{
		SessionID: created.ID,
		JoinCode:  created.JoinCode,
		JoinURL:   created.JoinURL,
	}, nil
}

// JoinSessionByCode resolves a join code and adds the user as a participant.
func (s *Service) JoinSessionByCode(ctx context.Context, code, userID, userName, avatarURL string) (*domain.JoinResult, error) {
	session, err := s.sessions.GetByJoinCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.AddParticipant(ctx, session.ID, userID, userName, avatarURL); err != nil {
		return nil, err
	}

	roomID := session.RoomID
	if roomID == uuid.Nil {
		roomID = session.ID
	}
	return &domain.JoinResult{SessionID: session.ID, RoomID: roomID}, nil
}

// JoinAndEnterRoom joins the session and then enters room presence. The two
// steps are not one transaction: if the presence write fails the membership
// stays and the result is returned alongside the error so the caller can
// retry the room entry.
func (s *Service) JoinAndEnterRoom(ctx context.Context, code, userID, userName, avatarURL, mediaUID string) (*domain.JoinResult, error) {
	result, err := s.JoinSessionByCode(ctx, code, userID, userName, avatarURL)
	if err != nil {
		return nil, err
	}

	if err := s.presence.Enter(ctx, result.RoomID, userID, userName, avatarURL, mediaUID); err != nil {
		return result, err
	}
	return result, nil
}

// LeaveSession removes the participant and clears any presence in the
// session's room. Presence cleanup is best effort.
func (s *Service) LeaveSession(ctx context.Context, sessionID uuid.UUID, userID string) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.sessions.RemoveParticipant(ctx, sessionID, userID); err != nil {
		return err
	}

	if err := s.presence.Leave(ctx, session.RoomID, userID); err != nil {
		slog.Warn("Failed to clear presence on leave", "room_id", session.RoomID, "user_id", userID, "error", err)
	}
	return nil
}

func (s *Service) EndSession(ctx context.Context, sessionID uuid.UUID, hostID string) error {
	return s.sessions.EndSession(ctx, sessionID, hostID)
}

func (s *Service) Sessions(ctx context.Context) ([]*domain.Session, error) {
	return s.sessions.GetAll(ctx)
}

func (s *Service) Session(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *Service) Participants(ctx context.Context, sessionID uuid.UUID) ([]domain.Participant, error) {
	return s.sessions.GetParticipants(ctx, sessionID)
}

// --- Presence ---

func (s *Service) EnterRoom(ctx context.Context, roomID uuid.UUID, userID, userName, avatarURL, mediaUID string) error {
	return s.presence.Enter(ctx, roomID, userID, userName, avatarURL, mediaUID)
}

func (s *Service) UpdatePresence(ctx context.Context, roomID uuid.UUID, userID string, update domain.PresenceUpdate) error {
	return s.presence.UpdateFlags(ctx, roomID, userID, update)
}

func (s *Service) LeaveRoom(ctx context.Context, roomID uuid.UUID, userID string) error {
	return s.presence.Leave(ctx, roomID, userID)
}

func (s *Service) RoomPresence(ctx context.Context, roomID uuid.UUID) ([]domain.Presence, error) {
	return s.presence.List(ctx, roomID)
}

// --- Quizzes and leaderboard ---

func (s *Service) SaveQuiz(ctx context.Context, quiz *domain.Quiz) (uuid.UUID, error) {
	return s.quizzes.Save(ctx, quiz)
}

func (s *Service) Quiz(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	return s.quizzes.GetByID(ctx, id)
}

func (s *Service) Quizzes(ctx context.Context) ([]*domain.Quiz, error) {
	return s.quizzes.List(ctx)
}

func (s *Service) SubmitAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	if _, err := s.quizzes.GetByID(ctx, attempt.QuizID); err != nil {
		return err
	}
	return s.quizzes.SaveAttempt(ctx, attempt)
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return s.leaderboard.Top(ctx, limit)
}

func (s *Service) UserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	return s.leaderboard.GetStats(ctx, userID)
}

// --- Discussions ---

func (s *Service) CreateThread(ctx context.Context, data domain.NewThread) (*domain.DiscussionThread, error) {
	return s.discussions.Create(ctx, data)
}

func (s *Service) Threads(ctx context.Context) ([]*domain.DiscussionThread, error) {
	return s.discussions.List(ctx)
}

// --- AI ---

func (s *Service) AnswerDoubt(ctx context.Context, question string) (string, error) {
	return s.tutor.AnswerDoubt(ctx, question)
}

func (s *Service) GenerateQuiz(ctx context.Context, topic, difficulty string, numQuestions int) (*domain.Quiz, error) {
	return s.tutor.GenerateQuiz(ctx, topic, difficulty, numQuestions)
}
