package server

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/JohilMehra/studysync/internal/domain"
	apperrors "github.com/JohilMehra/studysync/internal/errors"
)

// mapDomainError converts domain sentinels into structured errors. Anything
// unrecognized becomes an internal error via the middleware.
func mapDomainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrSessionNotFound):
		return apperrors.NotFoundError("session not found")
	case errors.Is(err, domain.ErrSessionFull):
		return apperrors.CapacityError("session is full")
	case errors.Is(err, domain.ErrSessionEnded):
		return apperrors.ConflictError("session has ended")
	case errors.Is(err, domain.ErrNotHost):
		return apperrors.ConflictError("only the host can end the session")
	case errors.Is(err, domain.ErrSessionCreation):
		return apperrors.InternalError("session was not created", err)
	case errors.Is(err, domain.ErrQuizNotFound):
		return apperrors.NotFoundError("quiz not found")
	case errors.Is(err, domain.ErrThreadNotFound):
		return apperrors.NotFoundError("thread not found")
	case errors.Is(err, domain.ErrPresenceNotFound):
		return apperrors.NotFoundError("no presence record for user in room")
	default:
		return err
	}
}

func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid UUID format").WithField(name, raw)
	}
	return id, nil
}
