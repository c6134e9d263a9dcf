package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/ledger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// mutationStatus maps a store error to an HTTP status. Validation errors are
// the caller's fault; a failed durable write is ours.
func mutationStatus(err error) int {
	if errors.Is(err, ledger.ErrPersistence) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// HandleHealth reports liveness.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
