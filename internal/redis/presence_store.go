package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/JohilMehra/studysync/internal/domain"
)

// presenceTTL caps how long a room's presence hash outlives its last write.
// Every mutation refreshes it, so only abandoned rooms expire.
const presenceTTL = 24 * time.Hour

func presenceKey(roomID uuid.UUID) string {
	return "room:" + roomID.String() + ":presence"
}

// PresenceStore keeps per-room presence records in a Redis hash keyed by user
// ID. Records are ephemeral: a lost Redis loses presence, not sessions.
type PresenceStore struct {
	rdb      *goredis.Client
	clock    clockwork.Clock
	notifier domain.Notifier
}

func NewPresenceStore(client *Client, clock clockwork.Clock, notifier domain.Notifier) *PresenceStore {
	return &PresenceStore{rdb: client.rdb, clock: clock, notifier: notifier}
}

// Enter writes the user's presence record with both media flags on. Re-entering
// overwrites the previous record.
func (s *PresenceStore) Enter(ctx context.Context, roomID uuid.UUID, userID, userName, avatarURL, mediaUID string) error {
	now := s.clock.Now().UTC()
	record := domain.Presence{
		UserID:    userID,
		UserName:  userName,
		AvatarURL: avatarURL,
		VideoOn:   true,
		AudioOn:   true,
		MediaUID:  mediaUID,
		JoinedAt:  now,
		LastSeen:  now,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal presence: %w", err)
	}

	key := presenceKey(roomID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, userID, data)
	pipe.Expire(ctx, key, presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write presence: %w", err)
	}

	s.notifier.PresenceChanged(ctx, roomID)
	return nil
}

// UpdateFlags applies a partial media-flag change and refreshes lastSeen.
func (s *PresenceStore) UpdateFlags(ctx context.Context, roomID uuid.UUID, userID string, update domain.PresenceUpdate) error {
	key := presenceKey(roomID)

	raw, err := s.rdb.HGet(ctx, key, userID).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.ErrPresenceNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read presence: %w", err)
	}

	var record domain.Presence
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return fmt.Errorf("failed to unmarshal presence: %w", err)
	}

	if update.VideoOn != nil {
		record.VideoOn = *update.VideoOn
	}
	if update.AudioOn != nil {
		record.AudioOn = *update.AudioOn
	}
	record.LastSeen = s.clock.Now().UTC()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal presence: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, userID, data)
	pipe.Expire(ctx, key, presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write presence: %w", err)
	}

	s.notifier.PresenceChanged(ctx, roomID)
	return nil
}

// Leave removes the user's record. Leaving a room you are not in is a no-op.
func (s *PresenceStore) Leave(ctx context.Context, roomID uuid.UUID, userID string) error {
	removed, err := s.rdb.HDel(ctx, presenceKey(roomID), userID).Result()
	if err != nil {
		return fmt.Errorf("failed to remove presence: %w", err)
	}

	if removed > 0 {
		s.notifier.PresenceChanged(ctx, roomID)
	}
	return nil
}

// List returns all presence records in the room, ordered by join time.
func (s *PresenceStore) List(ctx context.Context, roomID uuid.UUID) ([]domain.Presence, error) {
	entries, err := s.rdb.HGetAll(ctx, presenceKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list presence: %w", err)
	}

	records := make([]domain.Presence, 0, len(entries))
	for _, raw := range entries {
		var record domain.Presence
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal presence: %w", err)
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].JoinedAt.Before(records[j].JoinedAt)
	})
	return records, nil
}

var _ domain.PresenceStore = (*PresenceStore)(nil)
