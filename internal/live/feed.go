// Package live bridges store change events to websocket subscribers. Events
// carry only the topic that changed; the feed re-reads the current value and
// pushes a full snapshot, so clients never apply diffs.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/singleflight"

	"github.com/JohilMehra/studysync/internal/metrics"
	"github.com/JohilMehra/studysync/internal/redis"
	"github.com/JohilMehra/studysync/internal/ws"
)

// Snapshots loads the current value behind each topic.
type Snapshots interface {
	Sessions(ctx context.Context) (any, error)
	Session(ctx context.Context, id uuid.UUID) (any, error)
	Participants(ctx context.Context, sessionID uuid.UUID) (any, error)
	Presence(ctx context.Context, roomID uuid.UUID) (any, error)
}

// Envelope is the wire format pushed to websocket clients.
type Envelope struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// Feed owns the websocket hub and the Redis event subscription. Concurrent
// events on the same topic collapse into a single snapshot load.
type Feed struct {
	hub       *ws.Hub
	bus       *redis.PubSub
	snapshots Snapshots
	group     singleflight.Group
}

func NewFeed(bus *redis.PubSub, snapshots Snapshots) *Feed {
	f := &Feed{bus: bus, snapshots: snapshots}
	f.hub = ws.NewHub(f.checkTopic, nil)
	return f
}

// checkTopic rejects subscriptions to unparseable topics before the first
// client is admitted.
func (f *Feed) checkTopic(topic string) error {
	_, err := parseTopic(topic)
	return err
}

// Start launches the event loop. It returns immediately; the loop stops when
// ctx is cancelled.
func (f *Feed) Start(ctx context.Context) {
	sub := f.bus.Subscribe(ctx)
	go func() {
		defer sub.Close()
		for {
			select {
			case topic, ok := <-sub.Ch:
				if !ok {
					return
				}
				f.handleEvent(ctx, topic)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop closes all client connections.
func (f *Feed) Stop() {
	f.hub.Stop()
}

func (f *Feed) handleEvent(ctx context.Context, topic string) {
	if f.hub.GetClientCount(topic) == 0 {
		return
	}

	payload, err := f.Snapshot(ctx, topic)
	if err != nil {
		slog.Error("Failed to load snapshot for live topic", "topic", topic, "error", err)
		return
	}
	f.hub.Broadcast(topic, payload)
}

// Snapshot loads and marshals the current value of a topic. Concurrent calls
// for the same topic share one load.
func (f *Feed) Snapshot(ctx context.Context, topic string) ([]byte, error) {
	v, err, _ := f.group.Do(topic, func() (any, error) {
		ref, err := parseTopic(topic)
		if err != nil {
			return nil, err
		}

		data, err := ref.load(ctx, f.snapshots)
		if err != nil {
			metrics.LiveSnapshotFailuresTotal.WithLabelValues(ref.kind).Inc()
			return nil, err
		}

		return json.Marshal(Envelope{Topic: topic, Data: data})
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Register subscribes a websocket connection to a topic and immediately sends
// the current snapshot so the client starts from a consistent state.
func (f *Feed) Register(ctx context.Context, topic string, conn *websocket.Conn) error {
	if err := f.hub.Register(topic, conn); err != nil {
		return err
	}

	payload, err := f.Snapshot(ctx, topic)
	if err != nil {
		f.hub.Unregister(topic, conn)
		return err
	}
	f.hub.Broadcast(topic, payload)
	return nil
}

func (f *Feed) Unregister(topic string, conn *websocket.Conn) {
	f.hub.Unregister(topic, conn)
}

// ClientCount reports connected clients for a topic.
func (f *Feed) ClientCount(topic string) int {
	return f.hub.GetClientCount(topic)
}

// --- Topic parsing ---

type topicRef struct {
	kind string
	id   uuid.UUID
}

func (r topicRef) load(ctx context.Context, s Snapshots) (any, error) {
	switch r.kind {
	case "sessions":
		return s.Sessions(ctx)
	case "session":
		return s.Session(ctx, r.id)
	case "participants":
		return s.Participants(ctx, r.id)
	case "presence":
		return s.Presence(ctx, r.id)
	default:
		return nil, fmt.Errorf("unknown topic kind %q", r.kind)
	}
}

// parseTopic understands the topic grammar:
//
//	sessions
//	session:{uuid}
//	session:{uuid}:participants
//	room:{uuid}:presence
func parseTopic(topic string) (topicRef, error) {
	if topic == redis.TopicSessions {
		return topicRef{kind: "sessions"}, nil
	}

	parts := strings.Split(topic, ":")
	switch {
	case len(parts) == 2 && parts[0] == "session":
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return topicRef{}, fmt.Errorf("invalid topic %q: %w", topic, err)
		}
		return topicRef{kind: "session", id: id}, nil

	case len(parts) == 3 && parts[0] == "session" && parts[2] == "participants":
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return topicRef{}, fmt.Errorf("invalid topic %q: %w", topic, err)
		}
		return topicRef{kind: "participants", id: id}, nil

	case len(parts) == 3 && parts[0] == "room" && parts[2] == "presence":
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return topicRef{}, fmt.Errorf("invalid topic %q: %w", topic, err)
		}
		return topicRef{kind: "presence", id: id}, nil
	}

	return topicRef{}, fmt.Errorf("unknown topic %q", topic)
}
