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

type ProjectHandler struct {
	svc         *hierarchy.Service
	coordinator *cascade.Coordinator
	queueClient *queue.Client
	auditSvc    *audit.Service
}

func NewProjectHandler(svc *hierarchy.Service, coordinator *cascade.Coordinator, qc *queue.Client, auditSvc *audit.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc, coordinator: coordinator, queueClient: qc, auditSvc: auditSvc}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req hierarchy.CreateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	p, err := h.svc.CreateProject(r.Context(), ownerID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "project.create", "project", &p.ID, map[string]any{"name": p.Name})
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerFromContext(r.Context())
	projects, err := h.svc.ListProjects(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects, "count": len(projects)})
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	p, err := h.svc.GetProject(r.Context(), ownerID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	var patch hierarchy.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	p, err := h.svc.UpdateProject(r.Context(), ownerID, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "project.update", "project", &id, nil)
	writeJSON(w, http.StatusOK, p)
}

// Delete removes the project and everything under it. With ?async=true the
// cascade runs in a worker and the response is an immediate 202.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())

	if r.URL.Query().Get("async") == "true" && h.queueClient != nil {
		// Ownership check up front so a bogus id fails now, not in the worker.
		if _, err := h.svc.GetProject(r.Context(), ownerID, id); err != nil {
			writeServiceError(w, err)
			return
		}
		if err := h.queueClient.EnqueueProjectPurge(queue.ProjectPurgePayload{
			ProjectID: id.String(),
			OwnerID:   ownerID,
		}); err != nil {
			writeServiceError(w, err)
			return
		}
		h.logAudit(r, "project.purge.enqueue", "project", &id, nil)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "purge scheduled"})
		return
	}

	result, err := h.coordinator.DeleteProject(r.Context(), ownerID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "project.delete", "project", &id, map[string]any{"deleted": result.Deleted})
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "project and all its contents deleted",
		"deleted":  result.Deleted,
		"expected": result.Expected,
		"complete": result.Complete(),
	})
}

func (h *ProjectHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	var req hierarchy.CreateCollectionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	c, err := h.svc.CreateCollection(r.Context(), ownerID, projectID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, "collection.create", "collection", &c.ID, map[string]any{"name": c.Name})
	writeJSON(w, http.StatusCreated, c)
}

func (h *ProjectHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project ID"})
		return
	}

	ownerID := identity.OwnerFromContext(r.Context())
	collections, err := h.svc.ListCollections(r.Context(), ownerID, projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": collections, "count": len(collections)})
}

func (h *ProjectHandler) logAudit(r *http.Request, action, resourceType string, resourceID *uuid.UUID, details map[string]any) {
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
