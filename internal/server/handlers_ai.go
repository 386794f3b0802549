package server

import (
	"github.com/labstack/echo/v4"

	apperrors "github.com/JohilMehra/studysync/internal/errors"
)

type answerDoubtRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAnswerDoubt(c echo.Context) error {
	var req answerDoubtRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Question == "" {
		return apperrors.ValidationError("question is required")
	}

	answer, err := s.app.AnswerDoubt(c.Request().Context(), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(200, map[string]string{"answer": answer})
}

type generateQuizRequest struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"numQuestions"`
}

const maxQuizQuestions = 20

func (s *Server) handleGenerateQuiz(c echo.Context) error {
	var req generateQuizRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Topic == "" {
		return apperrors.ValidationError("topic is required")
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}
	if req.NumQuestions <= 0 || req.NumQuestions > maxQuizQuestions {
		return apperrors.ValidationError("numQuestions must be between 1 and 20").
			WithField("numQuestions", req.NumQuestions)
	}

	quiz, err := s.app.GenerateQuiz(c.Request().Context(), req.Topic, req.Difficulty, req.NumQuestions)
	if err != nil {
		return err
	}
	return c.JSON(200, map[string]any{"quiz": quiz})
}
