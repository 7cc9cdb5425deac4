package server

import (
	"encoding/json"
	"net/http"

	svcErr "github.com/amoro/amoro-server/internal/errors"
)

// WriteJSON writes a success envelope with the given payload.
func WriteJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes an error envelope.
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]string{
		"status":  "error",
		"message": msg,
	})
}

// WriteMappedError classifies a service error and writes the corresponding
// response.
func WriteMappedError(w http.ResponseWriter, err error) {
	code, msg := svcErr.Map(err)
	WriteError(w, code, msg)
}
