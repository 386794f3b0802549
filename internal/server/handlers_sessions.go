package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JohilMehra/studysync/internal/domain"
	apperrors "github.com/JohilMehra/studysync/internal/errors"
)

type createSessionRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	HostID          string    `json:"hostId"`
	HostName        string    `json:"hostName"`
	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"duration"`
	MaxParticipants int       `json:"maxParticipants"`
}

func (s *Server) handleCreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	switch {
	case req.Title == "":
		return apperrors.ValidationError("title is required")
	case req.HostID == "":
		return apperrors.ValidationError("hostId is required")
	case req.DurationMinutes <= 0:
		return apperrors.ValidationError("duration must be positive minutes")
	case req.MaxParticipants <= 0:
		return apperrors.ValidationError("maxParticipants must be positive")
	case req.StartTime.IsZero():
		return apperrors.ValidationError("startTime is required")
	}

	// Scheduling in the past is a caller mistake; stores do not re-check this.
	if req.StartTime.Before(time.Now().Add(-time.Minute)) {
		return apperrors.ValidationError("startTime must be in the future").
			WithField("startTime", req.StartTime)
	}

	link, err := s.app.CreateSessionWithLink(c.Request().Context(), domain.NewSession{
		Title:           req.Title,
		Description:     req.Description,
		HostID:          req.HostID,
		HostName:        req.HostName,
		StartTime:       req.StartTime.UTC(),
		DurationMinutes: req.DurationMinutes,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(201, link)
}

func (s *Server) handleListSessions(c echo.Context) error {
	sessions, err := s.app.Sessions(c.Request().Context())
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, sessions)
}

func (s *Server) handleGetSession(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	session, err := s.app.Session(c.Request().Context(), id)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, session)
}

func (s *Server) handleGetParticipants(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	participants, err := s.app.Participants(c.Request().Context(), id)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, participants)
}

type joinSessionRequest struct {
	JoinCode  string `json:"joinCode"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	AvatarURL string `json:"userAvatar"`
	MediaUID  string `json:"mediaUid"`
}

func (s *Server) handleJoinSession(c echo.Context) error {
	var req joinSessionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.JoinCode == "" {
		return apperrors.ValidationError("joinCode is required")
	}
	if req.UserID == "" {
		return apperrors.ValidationError("userId is required")
	}

	result, err := s.app.JoinSessionByCode(c.Request().Context(), req.JoinCode, req.UserID, req.UserName, req.AvatarURL)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, result)
}

type enterSessionResponse struct {
	SessionID     string `json:"sessionId"`
	RoomID        string `json:"roomId"`
	PresenceError string `json:"presenceError,omitempty"`
}

// handleEnterSession joins the session and enters room presence in one call.
// The two writes are separate stores: when only the presence write fails the
// membership stays and the response carries the presence error so the client
// can retry room entry.
func (s *Server) handleEnterSession(c echo.Context) error {
	var req joinSessionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.JoinCode == "" {
		return apperrors.ValidationError("joinCode is required")
	}
	if req.UserID == "" {
		return apperrors.ValidationError("userId is required")
	}

	result, err := s.app.JoinAndEnterRoom(c.Request().Context(), req.JoinCode, req.UserID, req.UserName, req.AvatarURL, req.MediaUID)
	if err != nil && result == nil {
		return mapDomainError(err)
	}

	resp := enterSessionResponse{
		SessionID: result.SessionID.String(),
		RoomID:    result.RoomID.String(),
	}
	if err != nil {
		resp.PresenceError = err.Error()
	}
	return c.JSON(200, resp)
}

type leaveSessionRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleLeaveSession(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req leaveSessionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.UserID == "" {
		return apperrors.ValidationError("userId is required")
	}

	if err := s.app.LeaveSession(c.Request().Context(), id, req.UserID); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, map[string]string{"status": "ok"})
}

type endSessionRequest struct {
	HostID string `json:"hostId"`
}

func (s *Server) handleEndSession(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req endSessionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.HostID == "" {
		return apperrors.ValidationError("hostId is required")
	}

	if err := s.app.EndSession(c.Request().Context(), id, req.HostID); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, map[string]string{"status": "ended"})
}
