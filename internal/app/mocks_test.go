package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JohilMehra/studysync/internal/domain"
)

// --- Mock implementations ---

type mockSessionRepo struct {
	createFn            func(ctx context.Context, data domain.NewSession) (uuid.UUID, error)
	getByIDFn           func(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	getByJoinCodeFn     func(ctx context.Context, code string) (*domain.Session, error)
	getAllFn            func(ctx context.Context) ([]*domain.Session, error)
	addParticipantFn    func(ctx context.Context, sessionID uuid.UUID, userID, userName, avatarURL string) error
	removeParticipantFn func(ctx context.Context, sessionID uuid.UUID, userID string) error
	getParticipantsFn   func(ctx context.Context, sessionID uuid.UUID) ([]domain.Participant, error)
	endSessionFn        func(ctx context.Context, sessionID uuid.UUID, hostID string) error
	advanceStatesFn     func(ctx context.Context, now time.Time) (int64, int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, data domain.NewSession) (uuid.UUID, error) {
	if m.createFn != nil {
		return m.createFn(ctx, data)
	}
	return uuid.Nil, fmt.Errorf("not implemented")
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockSessionRepo) GetByJoinCode(ctx context.Context, code string) (*domain.Session, error) {
	if m.getByJoinCodeFn != nil {
		return m.getByJoinCodeFn(ctx, code)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockSessionRepo) GetAll(ctx context.Context) ([]*domain.Session, error) {
	if m.getAllFn != nil {
		return m.getAllFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockSessionRepo) AddParticipant(ctx context.Context, sessionID uuid.UUID, userID, userName, avatarURL string) error {
	if m.addParticipantFn != nil {
		return m.addParticipantFn(ctx, sessionID, userID, userName, avatarURL)
	}
	return nil
}

func (m *mockSessionRepo) RemoveParticipant(ctx context.Context, sessionID uuid.UUID, userID string) error {
	if m.removeParticipantFn != nil {
		return m.removeParticipantFn(ctx, sessionID, userID)
	}
	return nil
}

func (m *mockSessionRepo) GetParticipants(ctx context.Context, sessionID uuid.UUID) ([]domain.Participant, error) {
	if m.getParticipantsFn != nil {
		return m.getParticipantsFn(ctx, sessionID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockSessionRepo) EndSession(ctx context.Context, sessionID uuid.UUID, hostID string) error {
	if m.endSessionFn != nil {
		return m.endSessionFn(ctx, sessionID, hostID)
	}
	return nil
}

func (m *mockSessionRepo) AdvanceStates(ctx context.Context, now time.Time) (int64, int64, error) {
	if m.advanceStatesFn != nil {
		return m.advanceStatesFn(ctx, now)
	}
	return 0, 0, nil
}

type mockPresenceStore struct {
	enterFn       func(ctx context.Context, roomID uuid.UUID, userID, userName, avatarURL, mediaUID string) error
	updateFlagsFn func(ctx context.Context, roomID uuid.UUID, userID string, update domain.PresenceUpdate) error
	leaveFn       func(ctx context.Context, roomID uuid.UUID, userID string) error
	listFn        func(ctx context.Context, roomID uuid.UUID) ([]domain.Presence, error)
}

func (m *mockPresenceStore) Enter(ctx context.Context, roomID uuid.UUID, userID, userName, avatarURL, mediaUID string) error {
	if m.enterFn != nil {
		return m.enterFn(ctx, roomID, userID, userName, avatarURL, mediaUID)
	}
	return nil
}

func (m *mockPresenceStore) UpdateFlags(ctx context.Context, roomID uuid.UUID, userID string, update domain.PresenceUpdate) error {
	if m.updateFlagsFn != nil {
		return m.updateFlagsFn(ctx, roomID, userID, update)
	}
	return nil
}

func (m *mockPresenceStore) Leave(ctx context.Context, roomID uuid.UUID, userID string) error {
	if m.leaveFn != nil {
		return m.leaveFn(ctx, roomID, userID)
	}
	return nil
}

func (m *mockPresenceStore) List(ctx context.Context, roomID uuid.UUID) ([]domain.Presence, error) {
	if m.listFn != nil {
		return m.listFn(ctx, roomID)
	}
	return []domain.Presence{}, nil
}

type mockQuizRepo struct {
	saveFn        func(ctx context.Context, quiz *domain.Quiz) (uuid.UUID, error)
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Quiz, error)
	listFn        func(ctx context.Context) ([]*domain.Quiz, error)
	saveAttemptFn func(ctx context.Context, attempt *domain.QuizAttempt) error
}

func (m *mockQuizRepo) Save(ctx context.Context, quiz *domain.Quiz) (uuid.UUID, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, quiz)
	}
	return uuid.New(), nil
}

func (m *mockQuizRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockQuizRepo) List(ctx context.Context) ([]*domain.Quiz, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockQuizRepo) SaveAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	if m.saveAttemptFn != nil {
		return m.saveAttemptFn(ctx, attempt)
	}
	return nil
}

type mockLeaderboardRepo struct {
	topFn      func(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	getStatsFn func(ctx context.Context, userID string) (*domain.UserStats, error)
}

func (m *mockLeaderboardRepo) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if m.topFn != nil {
		return m.topFn(ctx, limit)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockLeaderboardRepo) GetStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	if m.getStatsFn != nil {
		return m.getStatsFn(ctx, userID)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockDiscussionRepo struct {
	createFn func(ctx context.Context, data domain.NewThread) (*domain.DiscussionThread, error)
	listFn   func(ctx context.Context) ([]*domain.DiscussionThread, error)
}

func (m *mockDiscussionRepo) Create(ctx context.Context, data domain.NewThread) (*domain.DiscussionThread, error) {
	if m.createFn != nil {
		return m.createFn(ctx, data)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockDiscussionRepo) List(ctx context.Context) ([]*domain.DiscussionThread, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockTutor struct {
	answerDoubtFn  func(ctx context.Context, question string) (string, error)
	generateQuizFn func(ctx context.Context, topic, difficulty string, numQuestions int) (*domain.Quiz, error)
}

func (m *mockTutor) AnswerDoubt(ctx context.Context, question string) (string, error) {
	if m.answerDoubtFn != nil {
		return m.answerDoubtFn(ctx, question)
	}
	return "", fmt.Errorf("not implemented")
}

func (m *mockTutor) GenerateQuiz(ctx context.Context, topic, difficulty string, numQuestions int) (*domain.Quiz, error) {
	if m.generateQuizFn != nil {
		return m.generateQuizFn(ctx, topic, difficulty, numQuestions)
	}
	return nil, fmt.Errorf("not implemented")
}
