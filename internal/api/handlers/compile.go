package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/college-predictor/prompt-manager-be/internal/compiler"
	"github.com/college-predictor/prompt-manager-be/internal/identity"
)

type CompileHandler struct {
	svc *compiler.Service
}

func NewCompileHandler(svc *compiler.Service) *CompileHandler {
	return &CompileHandler{svc: svc}
}

// Compile renders a stored prompt into a provider payload. The provider comes
// from the request body when set, otherwise from the prompt's linked model.
func (h *CompileHandler) Compile(w http.ResponseWriter, r *http.Request) {
	var req compiler.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	result, err := h.svc.Compile(r.Context(), ownerID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CompileForProvider is the explicit-provider variant; the URL provider wins
// over anything in the body.
func (h *CompileHandler) CompileForProvider(w http.ResponseWriter, r *http.Request) {
	var req compiler.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.Provider = chi.URLParam(r, "provider")

	ownerID := identity.OwnerFromContext(r.Context())
	result, err := h.svc.Compile(r.Context(), ownerID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
