package message

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/amoro/amoro-server/internal/app"
	"github.com/amoro/amoro-server/internal/server"
)

// Registrar ties the message service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the message service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the messaging endpoints to the router
func (r *Registrar) Register(router *mux.Router) {
	svc := NewMessageService(r.appCtx)

	router.HandleFunc("/api/v1/messages", server.Authenticated(handleSend(svc))).
		Methods(http.MethodPost)
	router.HandleFunc("/api/v1/messages/{matchId}", server.Authenticated(handleList(svc))).
		Methods(http.MethodGet)
}

type sendRequest struct {
	MatchID string `json:"matchId"`
	Content string `json:"content"`
}

func handleSend(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		principal, _ := server.PrincipalFrom(req.Context())

		var body sendRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			server.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		msg, err := svc.Send(req.Context(), principal.ID, body.MatchID, body.Content)
		if err != nil {
			server.WriteMappedError(w, err)
			return
		}

		server.WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"status": "success",
			"data":   msg,
		})
	}
}

func handleList(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		principal, _ := server.PrincipalFrom(req.Context())
		matchID := mux.Vars(req)["matchId"]

		messages, err := svc.List(req.Context(), principal.ID, matchID)
		if err != nil {
			server.WriteMappedError(w, err)
			return
		}

		server.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data":   messages,
		})
	}
}
