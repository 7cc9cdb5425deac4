package feed

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amoro/amoro-server/internal/app"
	"github.com/amoro/amoro-server/internal/server"
	"github.com/amoro/amoro-server/internal/utils/pagination"
)

// Registrar ties the feed service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the feed service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the discovery endpoint to the router
func (r *Registrar) Register(router *mux.Router) {
	svc := NewFeedService(r.appCtx)
	router.HandleFunc("/api/v1/discover", server.Authenticated(handleGetCandidates(svc))).
		Methods(http.MethodGet)
}

func handleGetCandidates(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		principal, _ := server.PrincipalFrom(req.Context())
		q := req.URL.Query()

		seed, _ := strconv.ParseFloat(q.Get("randomSeed"), 64)
		maxDistance, _ := strconv.Atoi(q.Get("interestedCityMaxDistance"))

		params := Params{
			InterestedGenders: q.Get("interestedGenders"),
			InterestedAge:     q.Get("interestedAge"),
			InterestedCity:    q.Get("interestedCity"),
			MaxDistanceKm:     maxDistance,
			RandomSeed:        seed,
			IsSwipe:           q.Get("isSwipe") == "true",
		}
		page := pagination.Parse(q.Get("page"), q.Get("limit"))

		res, err := svc.GetCandidates(req.Context(), principal.ID, params, page)
		if err != nil {
			server.WriteMappedError(w, err)
			return
		}

		server.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "success",
			"data":        res.Candidates,
			"results":     res.Results,
			"hasNextPage": res.HasNextPage,
		})
	}
}
