package notify

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Identity is asserted upstream; origins are filtered by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Registrar exposes the realtime endpoint on the HTTP router.
type Registrar struct {
	registry *Registry
	log      *slog.Logger
}

// NewRegistrar creates a Registrar for the realtime channel.
func NewRegistrar(registry *Registry, log *slog.Logger) *Registrar {
	return &Registrar{registry: registry, log: log}
}

// Register attaches the websocket endpoint to the router.
func (r *Registrar) Register(router *mux.Router) {
	router.HandleFunc("/ws", r.handleSocket).Methods(http.MethodGet)
}

// handleSocket upgrades the connection and keeps the user registered until
// the socket closes. Browsers cannot set headers on websocket requests, so
// the upstream-authenticated user id arrives as a query parameter.
func (r *Registrar) handleSocket(w http.ResponseWriter, req *http.Request) {
	userID, err := strconv.ParseUint(req.URL.Query().Get("userId"), 10, 64)
	if err != nil || userID == 0 {
		http.Error(w, "userId query parameter required", http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.Error("websocket upgrade failed", "err", err)
		return
	}

	r.registry.Add(userID, ws)
	r.log.Debug("socket connected", "user", userID)

	defer func() {
		r.registry.Remove(userID, ws)
		_ = ws.Close()
		r.log.Debug("socket disconnected", "user", userID)
	}()

	// Drain the read side; clients only receive on this channel.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
