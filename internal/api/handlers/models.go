package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/college-predictor/prompt-manager-be/internal/catalog"
	"github.com/college-predictor/prompt-manager-be/internal/compiler"
)

type ModelHandler struct {
	svc *catalog.Service
}

func NewModelHandler(svc *catalog.Service) *ModelHandler {
	return &ModelHandler{svc: svc}
}

func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.ListModels(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models, "count": len(models)})
}

func (h *ModelHandler) ListByProvider(w http.ResponseWriter, r *http.Request) {
	provider, err := compiler.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	models, err := h.svc.ListByProvider(r.Context(), provider)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models, "count": len(models)})
}
