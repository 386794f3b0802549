// Package ws fans out live snapshots to websocket clients grouped by topic.
package ws

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JohilMehra/studysync/internal/metrics"
)

const maxClientsPerTopic = 100

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	topic string
	conn  *websocket.Conn
	errCh chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	topic string
	conn  *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdBroadcast struct {
	topic string
	data  []byte
}

func (cmdBroadcast) hubCmd() {}

type cmdGetClientCount struct {
	topic   string
	replyCh chan int
}

func (cmdGetClientCount) hubCmd() {}

type cmdFirstConnectResult struct {
	topic string
	err   error
}

func (cmdFirstConnectResult) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			cw.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	cw.conn.Close()
}

// --- Hub ---

// Hub is a single-goroutine actor owning all topic subscriptions. All state
// changes flow through the command channel; there are no locks.
type Hub struct {
	cmdCh            chan hubCmd
	clients          map[string]map[*websocket.Conn]*clientWriter
	pendingClients   map[string][]cmdRegister
	onFirstConnect   func(topic string) error
	onLastDisconnect func(topic string)
}

// NewHub starts the hub. onFirstConnect runs before the first client of a
// topic is admitted (used to start upstream watches); onLastDisconnect runs
// after the last client of a topic leaves.
func NewHub(onFirstConnect func(string) error, onLastDisconnect func(string)) *Hub {
	hub := &Hub{
		cmdCh:            make(chan hubCmd, 256),
		clients:          make(map[string]map[*websocket.Conn]*clientWriter),
		pendingClients:   make(map[string][]cmdRegister),
		onFirstConnect:   onFirstConnect,
		onLastDisconnect: onLastDisconnect,
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.topic, c.conn)
		case cmdBroadcast:
			h.handleBroadcast(c)
		case cmdGetClientCount:
			clients := h.clients[c.topic]
			c.replyCh <- len(clients)
		case cmdFirstConnectResult:
			h.handleFirstConnectResult(c)
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	// Topic already fully active — add client directly
	if clients, exists := h.clients[c.topic]; exists {
		if len(clients) >= maxClientsPerTopic {
			slog.Warn("Rejecting client: max clients per topic reached", "topic", c.topic, "max", maxClientsPerTopic)
			c.conn.Close()
			c.errCh <- fmt.Errorf("max clients per topic (%d) reached", maxClientsPerTopic)
			return
		}
		cw := newClientWriter(c.conn)
		clients[c.conn] = cw
		metrics.LiveClientsConnected.Inc()
		c.errCh <- nil
		return
	}

	// Topic has a pending onFirstConnect — queue this client
	if _, exists := h.pendingClients[c.topic]; exists {
		h.pendingClients[c.topic] = append(h.pendingClients[c.topic], c)
		return
	}

	// New topic — first client
	if h.onFirstConnect != nil {
		h.pendingClients[c.topic] = []cmdRegister{c}
		topic := c.topic
		go func() {
			err := h.onFirstConnect(topic)
			h.cmdCh <- cmdFirstConnectResult{topic: topic, err: err}
		}()
		return
	}

	// No onFirstConnect callback — register immediately
	clients := make(map[*websocket.Conn]*clientWriter)
	h.clients[c.topic] = clients
	metrics.LiveTopicsActive.Inc()
	cw := newClientWriter(c.conn)
	clients[c.conn] = cw
	metrics.LiveClientsConnected.Inc()
	c.errCh <- nil
}

func (h *Hub) handleFirstConnectResult(c cmdFirstConnectResult) {
	pending, exists := h.pendingClients[c.topic]
	if !exists {
		return
	}
	delete(h.pendingClients, c.topic)

	if c.err != nil {
		slog.Error("Failed to activate topic", "topic", c.topic, "error", c.err)
		for _, p := range pending {
			p.conn.Close()
			p.errCh <- c.err
		}
		return
	}

	clients := make(map[*websocket.Conn]*clientWriter)
	h.clients[c.topic] = clients
	metrics.LiveTopicsActive.Inc()
	for _, p := range pending {
		cw := newClientWriter(p.conn)
		clients[p.conn] = cw
		metrics.LiveClientsConnected.Inc()
		p.errCh <- nil
	}
}

func (h *Hub) handleUnregister(topic string, conn *websocket.Conn) {
	clients, exists := h.clients[topic]
	if !exists {
		return
	}

	cw, exists := clients[conn]
	if !exists {
		return
	}

	cw.stop()
	delete(clients, conn)
	metrics.LiveClientsConnected.Dec()

	if len(clients) == 0 {
		delete(h.clients, topic)
		metrics.LiveTopicsActive.Dec()
		if h.onLastDisconnect != nil {
			h.onLastDisconnect(topic)
		}
		slog.Debug("Last client disconnected", "topic", topic)
	}
}

func (h *Hub) handleBroadcast(c cmdBroadcast) {
	clients, exists := h.clients[c.topic]
	if !exists {
		return
	}

	var slow []*websocket.Conn
	for conn, cw := range clients {
		select {
		case cw.sendCh <- c.data:
			// sent successfully
		default:
			// client is slow, mark for removal
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("Disconnecting slow client", "topic", c.topic)
		metrics.LiveSlowClientsEvicted.Inc()
		h.handleUnregister(c.topic, conn)
	}
}

func (h *Hub) handleStop() {
	for topic, clients := range h.clients {
		for _, cw := range clients {
			cw.stop()
		}
		delete(h.clients, topic)
	}
	for topic, pending := range h.pendingClients {
		for _, p := range pending {
			p.conn.Close()
			p.errCh <- fmt.Errorf("hub stopped")
		}
		delete(h.pendingClients, topic)
	}
}

// --- Public API ---

func (h *Hub) Register(topic string, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{topic: topic, conn: conn, errCh: errCh}
	return <-errCh
}

func (h *Hub) Unregister(topic string, conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{topic: topic, conn: conn}
}

// Broadcast sends data to every client on the topic. Slow clients are evicted
// rather than blocking the hub.
func (h *Hub) Broadcast(topic string, data []byte) {
	h.cmdCh <- cmdBroadcast{topic: topic, data: data}
}

func (h *Hub) GetClientCount(topic string) int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdGetClientCount{topic: topic, replyCh: replyCh}
	return <-replyCh
}

func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}
}
