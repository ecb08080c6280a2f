package ws

import (
	"encoding/json"
	"sync"
)

// Client represents a single WebSocket connection with user context.
type Client struct {
	UserID uint
	Send   chan []byte
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// Hub maintains the set of live notification-feed connections. One user can
// hold several connections (multiple tabs).
type Hub struct {
	mu     sync.RWMutex
	byUser map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byUser: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
}

// BroadcastToUser pushes payload to every open connection of the user.
// Slow consumers are skipped rather than blocked on.
func (h *Hub) BroadcastToUser(userID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	m := h.byUser[userID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, m := range h.byUser {
		n += len(m)
	}
	return n
}
