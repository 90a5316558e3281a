package api

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/just-rehan/vitality-companion/internal/session"
	"go.uber.org/zap"
)

// Hub fans session events out to every connected browser tab
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// Serve registers the connection and blocks until the peer closes it
func (h *Hub) Serve(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		c.Close()
	}()

	// Drain the read side so we notice disconnects.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(ev session.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if err := c.WriteJSON(ev); err != nil {
			h.logger.Warn("WebSocket write failed", zap.Error(err))
			delete(h.clients, c)
			c.Close()
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
