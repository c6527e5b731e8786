package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/college-predictor/prompt-manager-be/internal/audit"
	"github.com/college-predictor/prompt-manager-be/internal/cascade"
	"github.com/college-predictor/prompt-manager-be/internal/hierarchy"
	"github.com/college-predictor/prompt-manager-be/internal/identity"
	"github.com/college-predictor/prompt-manager-be/internal/prompthistory"
)

type PromptHandler struct {
	svc         *hierarchy.Service
	historySvc  *prompthistory.Service
	coordinator *cascade.Coordinator
	auditSvc    *audit.Service
}

func NewPromptHandler(svc *hierarchy.Service, historySvc *prompthistory.Service, coordinator *cascade.Coordinator, auditSvc *audit.Service) *PromptHandler {
	return &PromptHandler{svc: svc, historySvc: historySvc, coordinator: coordinator, auditSvc: auditSvc}
}

func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerFromContext(r.Context())
	prompts, err := h.svc.ListOwnerPrompts(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompts": prompts, "count": len(prompts)})
}

func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	p, err := h.svc.GetPrompt(r.Context(), ownerID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update applies a partial edit. A change to the body or config snapshots the
// previous state into history before the new values land.
func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt ID"})
		return
	}

	var patch prompthistory.PromptPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	p, err := h.historySvc.UpdatePrompt(r.Context(), ownerID, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "prompt.update", &id)
	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	if err := h.coordinator.DeletePrompt(r.Context(), ownerID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "prompt.delete", &id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "prompt and its history deleted"})
}

func (h *PromptHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	entries, err := h.historySvc.ListHistory(r.Context(), ownerID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries, "count": len(entries)})
}

type restoreRequest struct {
	// Index into the newest-first history list; 0 is the most recent snapshot.
	Index         int    `json:"index"`
	ChangeMessage string `json:"change_message,omitempty"`
}

func (h *PromptHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt ID"})
		return
	}

	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	p, err := h.historySvc.Restore(r.Context(), ownerID, id, req.Index, req.ChangeMessage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "prompt.restore", &id)
	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) logAudit(r *http.Request, action string, resourceID *uuid.UUID) {
	if h.auditSvc == nil {
		return
	}
	if err := h.auditSvc.Log(r.Context(), audit.LogEntry{
		Action:       action,
		ResourceType: "prompt",
		ResourceID:   resourceID,
	}); err != nil {
		slog.Warn("audit log failed", "action", action, "error", err)
	}
}
