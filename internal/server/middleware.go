package server

import (
	"context"
	"net/http"
	"strconv"
)

// Principal is the upstream-authenticated identity attached to each request.
// Credential checks happen at the gateway; this core trusts the identity
// headers it forwards.
type Principal struct {
	ID   uint64
	Role string
}

type contextKey struct{}

var principalKey contextKey

// Authenticated wraps a handler and requires identity headers on the request.
func Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.Header.Get("X-User-ID"), 10, 64)
		if err != nil || id == 0 {
			WriteError(w, http.StatusUnauthorized, "missing or invalid identity")
			return
		}

		role := r.Header.Get("X-User-Role")
		if role == "" {
			role = "user"
		}

		p := Principal{ID: id, Role: role}
		next(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
	}
}

// PrincipalFrom extracts the authenticated principal from the request context.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
