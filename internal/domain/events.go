package domain

import (
	"context"

	"github.com/google/uuid"
)

// Notifier publishes change events after mutations so live views can re-fetch.
// Events carry no payload: subscribers always read back the full current value
// (push-based, store-defined delivery order, never a diff).
type Notifier interface {
	SessionChanged(ctx context.Context, sessionID uuid.UUID)
	ParticipantsChanged(ctx context.Context, sessionID uuid.UUID)
	PresenceChanged(ctx context.Context, roomID uuid.UUID)
}

// NoopNotifier discards all events. Used in tests and tooling.
type NoopNotifier struct{}

func (NoopNotifier) SessionChanged(context.Context, uuid.UUID)      {}
func (NoopNotifier) ParticipantsChanged(context.Context, uuid.UUID) {}
func (NoopNotifier) PresenceChanged(context.Context, uuid.UUID)     {}
