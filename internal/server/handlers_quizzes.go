package server

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/JohilMehra/studysync/internal/domain"
	apperrors "github.com/JohilMehra/studysync/internal/errors"
)

const defaultLeaderboardLimit = 25

type saveQuizRequest struct {
	OwnerID    string            `json:"ownerId"`
	Title      string            `json:"title"`
	Topic      string            `json:"topic"`
	Difficulty string            `json:"difficulty"`
	Questions  []domain.Question `json:"questions"`
}

func (s *Server) handleSaveQuiz(c echo.Context) error {
	var req saveQuizRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Topic == "" {
		return apperrors.ValidationError("topic is required")
	}
	if len(req.Questions) == 0 {
		return apperrors.ValidationError("questions are required")
	}

	title := req.Title
	if title == "" {
		title = req.Topic + " quiz"
	}

	id, err := s.app.SaveQuiz(c.Request().Context(), &domain.Quiz{
		OwnerID:    req.OwnerID,
		Title:      title,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Questions:  req.Questions,
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(201, map[string]string{"id": id.String()})
}

func (s *Server) handleListQuizzes(c echo.Context) error {
	quizzes, err := s.app.Quizzes(c.Request().Context())
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, quizzes)
}

func (s *Server) handleGetQuiz(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	quiz, err := s.app.Quiz(c.Request().Context(), id)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, quiz)
}

type submitAttemptRequest struct {
	UserID           string `json:"userId"`
	UserName         string `json:"userName"`
	Answers          []int  `json:"answers"`
	Score            int    `json:"score"`
	MaxScore         int    `json:"maxScore"`
	TimeSpentSeconds int    `json:"timeSpent"`
}

func (s *Server) handleSubmitAttempt(c echo.Context) error {
	quizID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req submitAttemptRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.UserID == "" {
		return apperrors.ValidationError("userId is required")
	}
	if req.MaxScore < 0 || req.Score < 0 || req.Score > req.MaxScore {
		return apperrors.ValidationError("score must be between 0 and maxScore")
	}

	attempt := &domain.QuizAttempt{
		QuizID:           quizID,
		UserID:           req.UserID,
		UserName:         req.UserName,
		Answers:          req.Answers,
		Score:            req.Score,
		MaxScore:         req.MaxScore,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}
	if err := s.app.SubmitAttempt(c.Request().Context(), attempt); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(201, attempt)
}

func (s *Server) handleUserStats(c echo.Context) error {
	userID := c.Param("userId")

	stats, err := s.app.UserStats(c.Request().Context(), userID)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, stats)
}

func (s *Server) handleLeaderboard(c echo.Context) error {
	limit := defaultLeaderboardLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apperrors.ValidationError("limit must be a positive integer").WithField("limit", raw)
		}
		limit = parsed
	}

	entries, err := s.app.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, entries)
}
