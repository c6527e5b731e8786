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
	"github.com/college-predictor/prompt-manager-be/internal/queue"
)

type CollectionHandler struct {
	svc         *hierarchy.Service
	coordinator *cascade.Coordinator
	queueClient *queue.Client
	auditSvc    *audit.Service
}

func NewCollectionHandler(svc *hierarchy.Service, coordinator *cascade.Coordinator, qc *queue.Client, auditSvc *audit.Service) *CollectionHandler {
	return &CollectionHandler{svc: svc, coordinator: coordinator, queueClient: qc, auditSvc: auditSvc}
}

func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid collection ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	c, err := h.svc.GetCollection(r.Context(), ownerID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid collection ID"})
		return
	}

	var patch hierarchy.CollectionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	c, err := h.svc.UpdateCollection(r.Context(), ownerID, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "collection.update", "collection", &id, nil)
	writeJSON(w, http.StatusOK, c)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid collection ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())

	if r.URL.Query().Get("async") == "true" && h.queueClient != nil {
		if _, err := h.svc.GetCollection(r.Context(), ownerID, id); err != nil {
			writeServiceError(w, err)
			return
		}
		if err := h.queueClient.EnqueueCollectionPurge(queue.CollectionPurgePayload{
			CollectionID: id.String(),
			OwnerID:      ownerID,
		}); err != nil {
			writeServiceError(w, err)
			return
		}
		h.logAudit(r, "collection.purge.enqueue", "collection", &id, nil)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "purge scheduled"})
		return
	}

	result, err := h.coordinator.DeleteCollection(r.Context(), ownerID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "collection.delete", "collection", &id, map[string]any{"deleted": result.Deleted})
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "collection and all its contents deleted",
		"deleted":  result.Deleted,
		"expected": result.Expected,
		"complete": result.Complete(),
	})
}

func (h *CollectionHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid collection ID"})
		return
	}

	var req hierarchy.CreateFolderInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	f, err := h.svc.CreateFolder(r.Context(), ownerID, collectionID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "folder.create", "folder", &f.ID, map[string]any{"name": f.Name})
	writeJSON(w, http.StatusCreated, f)
}

func (h *CollectionHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid collection ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	folders, err := h.svc.ListRootFolders(r.Context(), ownerID, collectionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": folders, "count": len(folders)})
}

func (h *CollectionHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid collection ID"})
		return
	}

	var req hierarchy.CreatePromptInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	p, err := h.svc.CreatePrompt(r.Context(), ownerID, collectionID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "prompt.create", "prompt", &p.ID, map[string]any{"title": p.Title})
	writeJSON(w, http.StatusCreated, p)
}

func (h *CollectionHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid collection ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	prompts, err := h.svc.ListCollectionPrompts(r.Context(), ownerID, collectionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompts": prompts, "count": len(prompts)})
}

func (h *CollectionHandler) logAudit(r *http.Request, action, resourceType string, resourceID *uuid.UUID, details map[string]any) {
	if h.auditSvc == nil {
		return
	}
	if err := h.auditSvc.Log(r.Context(), audit.LogEntry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}); err != nil {
		slog.Warn("audit log failed", "action", action, "error", err)
	}
}
