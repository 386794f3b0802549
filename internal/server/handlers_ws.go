package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/JohilMehra/studysync/internal/redis"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser clients connect from a separately hosted frontend
	},
}

func (s *Server) handleWatchSessions(c echo.Context) error {
	return s.serveFeed(c, redis.TopicSessions)
}

func (s *Server) handleWatchSession(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	return s.serveFeed(c, redis.TopicSession(id))
}

func (s *Server) handleWatchParticipants(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	return s.serveFeed(c, redis.TopicParticipants(id))
}

func (s *Server) handleWatchPresence(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	return s.serveFeed(c, redis.TopicRoomPresence(id))
}

func (s *Server) serveFeed(c echo.Context, topic string) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	if err := s.feed.Register(c.Request().Context(), topic, conn); err != nil {
		slog.Warn("failed to register live subscriber", "topic", topic, "error", err)
		_ = conn.Close()
		return nil
	}

	// Read pump — blocks until connection closes
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.feed.Unregister(topic, conn)

	return nil //nolint:nilerr // ReadMessage err is block-scoped; outer err is nil
}
