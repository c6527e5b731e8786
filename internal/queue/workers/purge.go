package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/college-predictor/prompt-manager-be/internal/cascade"
	"github.com/college-predictor/prompt-manager-be/internal/queue"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

// PurgeWorker runs the cascade deletes that were deferred off the request
// path. A target that is already gone counts as done, so retries after a
// partial failure are safe.
type PurgeWorker struct {
	coordinator *cascade.Coordinator
}

func NewPurgeWorker(coordinator *cascade.Coordinator) *PurgeWorker {
	return &PurgeWorker{coordinator: coordinator}
}

func (w *PurgeWorker) ProcessProjectPurge(ctx context.Context, t *asynq.Task) error {
	var payload queue.ProjectPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	projectID, err := uuid.Parse(payload.ProjectID)
	if err != nil {
		return fmt.Errorf("parse project ID: %w", err)
	}

	slog.Info("purging project", "project_id", projectID, "owner_id", payload.OwnerID)

	result, err := w.coordinator.DeleteProject(ctx, payload.OwnerID, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Info("project already purged", "project_id", projectID)
			return nil
		}
		return fmt.Errorf("purge project: %w", err)
	}

	slog.Info("project purged",
		"project_id", projectID,
		"collections", result.Deleted.Collections,
		"folders", result.Deleted.Folders,
		"prompts", result.Deleted.Prompts,
		"history", result.Deleted.HistoryEntries,
		"complete", result.Complete(),
	)
	return nil
}

func (w *PurgeWorker) ProcessCollectionPurge(ctx context.Context, t *asynq.Task) error {
	var payload queue.CollectionPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	collectionID, err := uuid.Parse(payload.CollectionID)
	if err != nil {
		return fmt.Errorf("parse collection ID: %w", err)
	}

	slog.Info("purging collection", "collection_id", collectionID, "owner_id", payload.OwnerID)

	result, err := w.coordinator.DeleteCollection(ctx, payload.OwnerID, collectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Info("collection already purged", "collection_id", collectionID)
			return nil
		}
		return fmt.Errorf("purge collection: %w", err)
	}

	slog.Info("collection purged",
		"collection_id", collectionID,
		"folders", result.Deleted.Folders,
		"prompts", result.Deleted.Prompts,
		"history", result.Deleted.HistoryEntries,
		"complete", result.Complete(),
	)
	return nil
}
