package redis

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/JohilMehra/studysync/internal/domain"
)

// eventsChannel carries all change events. The payload is the topic that
// changed, never the changed data; subscribers re-fetch the current value.
const eventsChannel = "studysync:events"

// TopicSessions is the topic for the overall session list.
const TopicSessions = "sessions"

// Topic names delivered as event payloads and used as live feed keys.
func TopicSession(id uuid.UUID) string      { return "session:" + id.String() }
func TopicParticipants(id uuid.UUID) string { return "session:" + id.String() + ":participants" }
func TopicRoomPresence(roomID uuid.UUID) string {
	return "room:" + roomID.String() + ":presence"
}

// PubSub provides cross-instance change notification via Redis Pub/Sub.
// It implements domain.Notifier on the publish side.
type PubSub struct {
	rdb *goredis.Client
}

// NewPubSub creates a new PubSub instance.
func NewPubSub(client *Client) *PubSub {
	return &PubSub{rdb: client.rdb}
}

func (ps *PubSub) publish(ctx context.Context, topic string) {
	if err := ps.rdb.Publish(ctx, eventsChannel, topic).Err(); err != nil {
		// Delivery is best effort: a missed event only delays a re-fetch.
		slog.Warn("Failed to publish change event", "topic", topic, "error", err)
	}
}

func (ps *PubSub) SessionChanged(ctx context.Context, sessionID uuid.UUID) {
	ps.publish(ctx, TopicSession(sessionID))
	ps.publish(ctx, TopicSessions)
}

func (ps *PubSub) ParticipantsChanged(ctx context.Context, sessionID uuid.UUID) {
	ps.publish(ctx, TopicParticipants(sessionID))
}

func (ps *PubSub) PresenceChanged(ctx context.Context, roomID uuid.UUID) {
	ps.publish(ctx, TopicRoomPresence(roomID))
}

// SessionsListChanged announces a change to the overall session list without
// naming a specific session. Used by bulk state sweeps.
func (ps *PubSub) SessionsListChanged(ctx context.Context) {
	ps.publish(ctx, TopicSessions)
}

var _ domain.Notifier = (*PubSub)(nil)

// Subscription is an active subscription to the events channel.
type Subscription struct {
	sub    *goredis.PubSub
	Ch     <-chan string
	cancel context.CancelFunc
}

// Close unsubscribes and closes the subscription.
func (s *Subscription) Close() {
	s.cancel()
	_ = s.sub.Close()
}

// Subscribe listens for change events. The returned channel receives topic
// names. Call subscription.Close() when done.
func (ps *PubSub) Subscribe(ctx context.Context) *Subscription {
	sub := ps.rdb.Subscribe(ctx, eventsChannel)

	subCtx, cancel := context.WithCancel(ctx)
	ch := make(chan string, 64)

	go func() {
		defer close(ch)
		msgCh := sub.Channel()
		for {
			select {
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				select {
				case ch <- msg.Payload:
				default:
					// Drop if receiver is slow
				}
			case <-subCtx.Done():
				return
			}
		}
	}()

	return &Subscription{
		sub:    sub,
		Ch:     ch,
		cancel: cancel,
	}
}
