// Package prompthistory owns the prompt update path and its append-only
// change log. A history entry is the pre-image of a body/config change,
// written before the prompt row is touched; cosmetic edits (title, tags,
// description) never generate entries. History is immutable and lives exactly
// as long as its prompt.
package prompthistory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

// ErrInvalidIndex is returned by Restore when the history index is out of
// range for the prompt.
var ErrInvalidIndex = errors.New("history index out of range")

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// PromptPatch applies only the fields that are set. Body and Config drive
// history; the rest are cosmetic.
type PromptPatch struct {
	Title         *string              `json:"title,omitempty"`
	Description   *string              `json:"description,omitempty"`
	Body          models.MessageMap    `json:"body,omitempty"`
	Config        *models.TuningParams `json:"config,omitempty"`
	ModelName     *string              `json:"model_name,omitempty"`
	Tags          []string             `json:"tags,omitempty"`
	ChangeMessage string               `json:"change_message,omitempty"`
}

// UpdatePrompt applies a partial update. When the patched body differs from
// the stored one, the prior body and config are recorded as a history entry
// before the prompt is rewritten.
func (s *Service) UpdatePrompt(ctx context.Context, ownerID string, id uuid.UUID, patch PromptPatch) (*models.Prompt, error) {
	p, err := s.store.Prompts.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	bodyChanged := patch.Body != nil && !p.Body.Equal(patch.Body)
	if bodyChanged {
		entry, err := s.recordChange(ctx, p, patch.ChangeMessage)
		if err != nil {
			return nil, err
		}
		p.HistoryIDs = append(p.HistoryIDs, entry.ID)
		p.Body = patch.Body.Clone()
		if patch.Config != nil {
			p.Config = patch.Config.Clone()
		}
	} else if patch.Config != nil {
		// A config-only change is still part of the snapshot contract: the
		// prior configuration is preserved alongside the unchanged body.
		entry, err := s.recordChange(ctx, p, patch.ChangeMessage)
		if err != nil {
			return nil, err
		}
		p.HistoryIDs = append(p.HistoryIDs, entry.ID)
		p.Config = patch.Config.Clone()
	}

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.ModelName != nil {
		p.ModelName = *patch.ModelName
	}
	if patch.Tags != nil {
		p.Tags = append([]string(nil), patch.Tags...)
	}

	now := time.Now().UTC()
	p.UpdatedAt = &now

	if err := s.store.Prompts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// recordChange appends the prompt's current body/config as an immutable
// pre-image entry.
func (s *Service) recordChange(ctx context.Context, p *models.Prompt, changeMessage string) (*models.HistoryEntry, error) {
	entry := &models.HistoryEntry{
		ID:            uuid.New(),
		PromptID:      p.ID,
		Timestamp:     time.Now().UTC(),
		Body:          p.Body.Clone(),
		Config:        p.Config.Clone(),
		ChangeMessage: changeMessage,
	}
	if err := s.store.History.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("record change: %w", err)
	}
	return entry, nil
}

// ListHistory returns the prompt's entries newest-first.
func (s *Service) ListHistory(ctx context.Context, ownerID string, promptID uuid.UUID) ([]models.HistoryEntry, error) {
	if _, err := s.store.Prompts.Get(ctx, promptID, ownerID); err != nil {
		return nil, err
	}
	return s.store.History.ListByPrompt(ctx, promptID)
}

// Restore re-applies the snapshot at index (0 = newest) as the prompt's
// current body and config. Restoring is a normal edit: the state being
// replaced is recorded as a new history entry first.
func (s *Service) Restore(ctx context.Context, ownerID string, promptID uuid.UUID, index int, changeMessage string) (*models.Prompt, error) {
	p, err := s.store.Prompts.Get(ctx, promptID, ownerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.History.ListByPrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(entries) {
		return nil, ErrInvalidIndex
	}
	snapshot := entries[index]

	if changeMessage == "" {
		changeMessage = fmt.Sprintf("restored snapshot from %s", snapshot.Timestamp.Format(time.RFC3339))
	}

	entry, err := s.recordChange(ctx, p, changeMessage)
	if err != nil {
		return nil, err
	}
	p.HistoryIDs = append(p.HistoryIDs, entry.ID)
	p.Body = snapshot.Body.Clone()
	p.Config = snapshot.Config.Clone()

	now := time.Now().UTC()
	p.UpdatedAt = &now

	if err := s.store.Prompts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
