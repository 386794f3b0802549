package server

import (
	"github.com/labstack/echo/v4"

	"github.com/JohilMehra/studysync/internal/domain"
	apperrors "github.com/JohilMehra/studysync/internal/errors"
)

func (s *Server) handleListDiscussions(c echo.Context) error {
	threads, err := s.app.Threads(c.Request().Context())
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, threads)
}

type createDiscussionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Topic   string `json:"topic"`
	Author  string `json:"author"`
}

func (s *Server) handleCreateDiscussion(c echo.Context) error {
	var req createDiscussionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	switch {
	case req.Title == "":
		return apperrors.ValidationError("title is required")
	case req.Content == "":
		return apperrors.ValidationError("content is required")
	case req.Topic == "":
		return apperrors.ValidationError("topic is required")
	case req.Author == "":
		return apperrors.ValidationError("author is required")
	}

	thread, err := s.app.CreateThread(c.Request().Context(), domain.NewThread{
		Title:   req.Title,
		Content: req.Content,
		Topic:   req.Topic,
		Author:  req.Author,
	})
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(201, thread)
}
