package match

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/amoro/amoro-server/internal/app"
	"github.com/amoro/amoro-server/internal/db"
	"github.com/amoro/amoro-server/internal/server"
)

// Registrar ties the match service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the match endpoints to the router
func (r *Registrar) Register(router *mux.Router) {
	svc := NewMatchService(r.appCtx)

	router.HandleFunc("/api/v1/matches/swipe", server.Authenticated(handleSwipe(svc))).
		Methods(http.MethodPost)
	router.HandleFunc("/api/v1/matches/new", server.Authenticated(handleCountUnseen(svc))).
		Methods(http.MethodGet)
	router.HandleFunc("/api/v1/matches", server.Authenticated(handleListMatches(svc))).
		Methods(http.MethodGet)
	router.HandleFunc("/api/v1/users/deactivate", server.Authenticated(handleDeactivate(svc))).
		Methods(http.MethodPost)
}

type swipeRequest struct {
	UserID uint64 `json:"userId"`
	Status string `json:"status"`
}

func handleSwipe(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		principal, _ := server.PrincipalFrom(req.Context())

		var body swipeRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			server.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		mutual, err := svc.ApplySwipe(req.Context(), principal.ID, body.UserID, db.MatchStatus(body.Status))
		if err != nil {
			server.WriteMappedError(w, err)
			return
		}

		server.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":        "success",
			"isMutualMatch": mutual,
		})
	}
}

func handleListMatches(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		principal, _ := server.PrincipalFrom(req.Context())

		res, err := svc.ListMatches(req.Context(), principal.ID)
		if err != nil {
			server.WriteMappedError(w, err)
			return
		}

		server.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data":   res,
		})
	}
}

func handleCountUnseen(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		principal, _ := server.PrincipalFrom(req.Context())

		count, err := svc.CountUnseen(req.Context(), principal.ID)
		if err != nil {
			server.WriteMappedError(w, err)
			return
		}

		server.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data":   count,
		})
	}
}

// handleDeactivate is the internal hook the account subsystem calls when a
// user deletes their account or gets blocked; the cascade into matches lives
// here because match rows are owned by this core.
func handleDeactivate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		principal, _ := server.PrincipalFrom(req.Context())

		if err := svc.DeactivateUser(req.Context(), principal.ID); err != nil {
			server.WriteMappedError(w, err)
			return
		}

		server.WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}
