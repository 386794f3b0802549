package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Presence is the ephemeral per-room record of a user's live media state.
// Its lifecycle is independent of session membership: a room can have presence
// without a matching session (ad-hoc video pages).
type Presence struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	AvatarURL string    `json:"userAvatar,omitempty"`
	VideoOn   bool      `json:"isVideoOn"`
	AudioOn   bool      `json:"isAudioOn"`
	MediaUID  string    `json:"mediaUid"`
	JoinedAt  time.Time `json:"joinedAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// PresenceUpdate carries a partial media-flag change. Nil fields are left as-is.
type PresenceUpdate struct {
	VideoOn *bool `json:"isVideoOn,omitempty"`
	AudioOn *bool `json:"isAudioOn,omitempty"`
}

// PresenceStore owns the ephemeral room presence records.
type PresenceStore interface {
	Enter(ctx context.Context, roomID uuid.UUID, userID, userName, avatarURL, mediaUID string) error
	UpdateFlags(ctx context.Context, roomID uuid.UUID, userID string, update PresenceUpdate) error
	Leave(ctx context.Context, roomID uuid.UUID, userID string) error
	List(ctx context.Context, roomID uuid.UUID) ([]Presence, error)
}
