package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/college-predictor/prompt-manager-be/internal/compiler"
	"github.com/college-predictor/prompt-manager-be/internal/hierarchy"
	"github.com/college-predictor/prompt-manager-be/internal/prompthistory"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses. Every
// handler funnels unrecognized errors through here as a 500 with a generic
// body so internals never leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr *hierarchy.ValidationError
		missingVars   *compiler.MissingVariablesError
	)

	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, compiler.ErrMissingTemplate):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicateName):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Error()})
	case errors.As(err, &missingVars):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "unresolved template variables",
			"missing_variables": missingVars.Names,
		})
	case errors.Is(err, compiler.ErrUnsupportedProvider):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, prompthistory.ErrInvalidIndex):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
