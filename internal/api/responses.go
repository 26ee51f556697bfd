package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/choicemetrics/convd/internal/scoring"
	"github.com/choicemetrics/convd/internal/sim"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps core error kinds onto HTTP statuses: bad input and bad
// simulation configuration are the caller's fault, everything else is ours.
func writeError(w http.ResponseWriter, err error) {
	var ve *scoring.ValidationError
	var ce *sim.ConfigurationError
	switch {
	case errors.As(err, &ve), errors.As(err, &ce):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
