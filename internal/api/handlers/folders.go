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
)

type FolderHandler struct {
	svc         *hierarchy.Service
	coordinator *cascade.Coordinator
	auditSvc    *audit.Service
}

func NewFolderHandler(svc *hierarchy.Service, coordinator *cascade.Coordinator, auditSvc *audit.Service) *FolderHandler {
	return &FolderHandler{svc: svc, coordinator: coordinator, auditSvc: auditSvc}
}

func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid folder ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	f, err := h.svc.GetFolder(r.Context(), ownerID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid folder ID"})
		return
	}

	var patch hierarchy.FolderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	f, err := h.svc.UpdateFolder(r.Context(), ownerID, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "folder.update", &id)
	writeJSON(w, http.StatusOK, f)
}

// Delete removes the folder subtree and responds with the folder and prompt
// ids that went with it.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid folder ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	deletion, err := h.coordinator.DeleteFolder(r.Context(), ownerID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "folder.delete", &id)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":            "folder and all its contents deleted",
		"deleted_folder_ids": deletion.FolderIDs,
		"deleted_prompt_ids": deletion.PromptIDs,
	})
}

func (h *FolderHandler) logAudit(r *http.Request, action string, resourceID *uuid.UUID) {
	if h.auditSvc == nil {
		return
	}
	if err := h.auditSvc.Log(r.Context(), audit.LogEntry{
		Action:       action,
		ResourceType: "folder",
		ResourceID:   resourceID,
	}); err != nil {
		slog.Warn("audit log failed", "action", action, "error", err)
	}
}
