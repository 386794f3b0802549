package server

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/JohilMehra/studysync/internal/config"
	"github.com/JohilMehra/studysync/internal/domain"
	apperrors "github.com/JohilMehra/studysync/internal/errors"
)

// --- Mock implementations ---

type mockAppService struct {
	createSessionWithLinkFn func(ctx context.Context, data domain.NewSession) (*domain.SessionLink, error)
	joinSessionByCodeFn     func(ctx context.Context, code, userID, userName, avatarURL string) (*domain.JoinResult, error)
	joinAndEnterRoomFn      func(ctx context.Context, code, userID, userName, avatarURL, mediaUID string) (*domain.JoinResult, error)
	leaveSessionFn          func(ctx context.Context, sessionID uuid.UUID, userID string) error
	endSessionFn            func(ctx context.Context, sessionID uuid.UUID, hostID string) error
	sessionsFn              func(ctx context.Context) ([]*domain.Session, error)
	sessionFn               func(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	participantsFn          func(ctx context.Context, sessionID uuid.UUID) ([]domain.Participant, error)
	enterRoomFn             func(ctx context.Context, roomID uuid.UUID, userID, userName, avatarURL, mediaUID string) error
	updatePresenceFn        func(ctx context.Context, roomID uuid.UUID, userID string, update domain.PresenceUpdate) error
	leaveRoomFn             func(ctx context.Context, roomID uuid.UUID, userID string) error
	roomPresenceFn          func(ctx context.Context, roomID uuid.UUID) ([]domain.Presence, error)
	saveQuizFn              func(ctx context.Context, quiz *domain.Quiz) (uuid.UUID, error)
	quizFn                  func(ctx context.Context, id uuid.UUID) (*domain.Quiz, error)
	quizzesFn               func(ctx context.Context) ([]*domain.Quiz, error)
	submitAttemptFn         func(ctx context.Context, attempt *domain.QuizAttempt) error
	leaderboardFn           func(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	userStatsFn             func(ctx context.Context, userID string) (*domain.UserStats, error)
	createThreadFn          func(ctx context.Context, data domain.NewThread) (*domain.DiscussionThread, error)
	threadsFn               func(ctx context.Context) ([]*domain.DiscussionThread, error)
	answerDoubtFn           func(ctx context.Context, question string) (string, error)
	generateQuizFn          func(ctx context.Context, topic, difficulty string, numQuestions int) (*domain.Quiz, error)
}

func (m *mockAppService) CreateSessionWithLink(ctx context.Context, data domain.NewSession) (*domain.SessionLink, error) {
	if m.createSessionWithLinkFn != nil {
		return m.createSessionWithLinkFn(ctx, data)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAppService) JoinSessionByCode(ctx context.Context, code, userID, userName, avatarURL string) (*domain.JoinResult, error) {
	if m.joinSessionByCodeFn != nil {
		return m.joinSessionByCodeFn(ctx, code, userID, userName, avatarURL)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAppService) JoinAndEnterRoom(ctx context.Context, code, userID, userName, avatarURL, mediaUID string) (*domain.JoinResult, error) {
	if m.joinAndEnterRoomFn != nil {
		return m.joinAndEnterRoomFn(ctx, code, userID, userName, avatarURL, mediaUID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAppService) LeaveSession(ctx context.Context, sessionID uuid.UUID, userID string) error {
	if m.leaveSessionFn != nil {
		return m.leaveSessionFn(ctx, sessionID, userID)
	}
	return nil
}

func (m *mockAppService) EndSession(ctx context.Context, sessionID uuid.UUID, hostID string) error {
	if m.endSessionFn != nil {
		return m.endSessionFn(ctx, sessionID, hostID)
	}
	return nil
}

func (m *mockAppService) Sessions(ctx context.Context) ([]*domain.Session, error) {
	if m.sessionsFn != nil {
		return m.sessionsFn(ctx)
	}
	return nil, nil
}

func (m *mockAppService) Session(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if m.sessionFn != nil {
		return m.sessionFn(ctx, id)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockAppService) Participants(ctx context.Context, sessionID uuid.UUID) ([]domain.Participant, error) {
	if m.participantsFn != nil {
		return m.participantsFn(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockAppService) EnterRoom(ctx context.Context, roomID uuid.UUID, userID, userName, avatarURL, mediaUID string) error {
	if m.enterRoomFn != nil {
		return m.enterRoomFn(ctx, roomID, userID, userName, avatarURL, mediaUID)
	}
	return nil
}

func (m *mockAppService) UpdatePresence(ctx context.Context, roomID uuid.UUID, userID string, update domain.PresenceUpdate) error {
	if m.updatePresenceFn != nil {
		return m.updatePresenceFn(ctx, roomID, userID, update)
	}
	return nil
}

func (m *mockAppService) LeaveRoom(ctx context.Context, roomID uuid.UUID, userID string) error {
	if m.leaveRoomFn != nil {
		return m.leaveRoomFn(ctx, roomID, userID)
	}
	return nil
}

func (m *mockAppService) RoomPresence(ctx context.Context, roomID uuid.UUID) ([]domain.Presence, error) {
	if m.roomPresenceFn != nil {
		return m.roomPresenceFn(ctx, roomID)
	}
	return nil, nil
}

func (m *mockAppService) SaveQuiz(ctx context.Context, quiz *domain.Quiz) (uuid.UUID, error) {
	if m.saveQuizFn != nil {
		return m.saveQuizFn(ctx, quiz)
	}
	return uuid.Nil, fmt.Errorf("not implemented")
}

func (m *mockAppService) Quiz(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	if m.quizFn != nil {
		return m.quizFn(ctx, id)
	}
	return nil, domain.ErrQuizNotFound
}

func (m *mockAppService) Quizzes(ctx context.Context) ([]*domain.Quiz, error) {
	if m.quizzesFn != nil {
		return m.quizzesFn(ctx)
	}
	return nil, nil
}

func (m *mockAppService) SubmitAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	if m.submitAttemptFn != nil {
		return m.submitAttemptFn(ctx, attempt)
	}
	return nil
}

func (m *mockAppService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if m.leaderboardFn != nil {
		return m.leaderboardFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockAppService) UserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	if m.userStatsFn != nil {
		return m.userStatsFn(ctx, userID)
	}
	return &domain.UserStats{UserID: userID}, nil
}

func (m *mockAppService) CreateThread(ctx context.Context, data domain.NewThread) (*domain.DiscussionThread, error) {
	if m.createThreadFn != nil {
		return m.createThreadFn(ctx, data)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAppService) Threads(ctx context.Context) ([]*domain.DiscussionThread, error) {
	if m.threadsFn != nil {
		return m.threadsFn(ctx)
	}
	return nil, nil
}

func (m *mockAppService) AnswerDoubt(ctx context.Context, question string) (string, error) {
	if m.answerDoubtFn != nil {
		return m.answerDoubtFn(ctx, question)
	}
	return "", fmt.Errorf("not implemented")
}

func (m *mockAppService) GenerateQuiz(ctx context.Context, topic, difficulty string, numQuestions int) (*domain.Quiz, error) {
	if m.generateQuizFn != nil {
		return m.generateQuizFn(ctx, topic, difficulty, numQuestions)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(_ context.Context) error {
	return m.err
}

// --- Test helpers ---

func newTestServer(t *testing.T, app domain.AppService, opts ...func(*Server)) *Server {
	t.Helper()

	e := echo.New()
	// Install error middleware for tests to match production behavior
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:           e,
		config:         &config.Config{Port: "8080"},
		app:            app,
		postgresHealth: &mockHealthChecker{},
		redisHealth:    &mockHealthChecker{},
		startTime:      time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

func withConfig(cfg *config.Config) func(*Server) {
	return func(s *Server) {
		s.config = cfg
	}
}

func withPostgresHealthCheck(pg postgresHealthChecker) func(*Server) {
	return func(s *Server) {
		s.postgresHealth = pg
	}
}

func withRedisHealthCheck(redis redisHealthChecker) func(*Server) {
	return func(s *Server) {
		s.redisHealth = redis
	}
}
