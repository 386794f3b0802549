package server

import (
	"github.com/labstack/echo/v4"

	"github.com/JohilMehra/studysync/internal/domain"
	apperrors "github.com/JohilMehra/studysync/internal/errors"
)

func (s *Server) handleListPresence(c echo.Context) error {
	roomID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	records, err := s.app.RoomPresence(c.Request().Context(), roomID)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, records)
}

type enterRoomRequest struct {
	UserName  string `json:"userName"`
	AvatarURL string `json:"userAvatar"`
	MediaUID  string `json:"mediaUid"`
}

func (s *Server) handleEnterRoom(c echo.Context) error {
	roomID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	userID := c.Param("userId")
	if userID == "" {
		return apperrors.ValidationError("userId is required")
	}

	var req enterRoomRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if err := s.app.EnterRoom(c.Request().Context(), roomID, userID, req.UserName, req.AvatarURL, req.MediaUID); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, map[string]string{"status": "ok"})
}

func (s *Server) handleUpdatePresence(c echo.Context) error {
	roomID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	userID := c.Param("userId")

	var update domain.PresenceUpdate
	if err := c.Bind(&update); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if update.VideoOn == nil && update.AudioOn == nil {
		return apperrors.ValidationError("at least one of isVideoOn, isAudioOn is required")
	}

	if err := s.app.UpdatePresence(c.Request().Context(), roomID, userID, update); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, map[string]string{"status": "ok"})
}

func (s *Server) handleLeaveRoom(c echo.Context) error {
	roomID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	userID := c.Param("userId")

	if err := s.app.LeaveRoom(c.Request().Context(), roomID, userID); err != nil {
		return mapDomainError(err)
	}
	return c.JSON(200, map[string]string{"status": "ok"})
}

// handleVideoCredentials hands the media room credentials to the client. A
// dedicated token server is out of scope; the static env credentials pass
// through unchanged.
func (s *Server) handleVideoCredentials(c echo.Context) error {
	if s.config.AgoraAppID == "" {
		return apperrors.NotFoundError("video credentials are not configured")
	}
	return c.JSON(200, map[string]string{
		"appId": s.config.AgoraAppID,
		"token": s.config.AgoraToken,
	})
}
