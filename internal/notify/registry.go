package notify

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Registry tracks which users currently hold a realtime connection.
// A user has at most one connection; a new connection replaces the old one.
type Registry struct {
	mu    sync.RWMutex
	conns map[uint64]*conn
}

type conn struct {
	mu sync.Mutex // serializes writes on the websocket
	ws *websocket.Conn
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[uint64]*conn)}
}

// Add registers a user's connection, closing any previous one.
func (r *Registry) Add(userID uint64, ws *websocket.Conn) {
	r.mu.Lock()
	old := r.conns[userID]
	r.conns[userID] = &conn{ws: ws}
	r.mu.Unlock()

	if old != nil {
		_ = old.ws.Close()
	}
}

// Remove drops the user's connection if ws is still the registered one.
func (r *Registry) Remove(userID uint64, ws *websocket.Conn) {
	r.mu.Lock()
	if c, ok := r.conns[userID]; ok && c.ws == ws {
		delete(r.conns, userID)
	}
	r.mu.Unlock()
}

// Online reports whether the user currently has a connection.
func (r *Registry) Online(userID uint64) bool {
	r.mu.RLock()
	_, ok := r.conns[userID]
	r.mu.RUnlock()
	return ok
}

// Send pushes an event to the user if online. Delivery is best-effort: a
// write failure drops the connection and the event is lost.
func (r *Registry) Send(userID uint64, ev Event) bool {
	r.mu.RLock()
	c, ok := r.conns[userID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	c.mu.Lock()
	err := c.ws.WriteJSON(ev)
	c.mu.Unlock()

	if err != nil {
		_ = c.ws.Close()
		r.Remove(userID, c.ws)
		return false
	}
	return true
}
