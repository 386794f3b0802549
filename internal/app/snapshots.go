package app

import (
	"context"

	"github.com/google/uuid"
)

// LiveSnapshots adapts the service to the live feed's loader contract.
type LiveSnapshots struct {
	svc *Service
}

func NewLiveSnapshots(svc *Service) *LiveSnapshots {
	return &LiveSnapshots{svc: svc}
}

func (l *LiveSnapshots) Sessions(ctx context.Context) (any, error) {
	return l.svc.Sessions(ctx)
}

func (l *LiveSnapshots) Session(ctx context.Context, id uuid.UUID) (any, error) {
	return l.svc.Session(ctx, id)
}

func (l *LiveSnapshots) Participants(ctx context.Context, sessionID uuid.UUID) (any, error) {
	return l.svc.Participants(ctx, sessionID)
}

func (l *LiveSnapshots) Presence(ctx context.Context, roomID uuid.UUID) (any, error) {
	return l.svc.RoomPresence(ctx, roomID)
}
