package prompthistory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
	"github.com/college-predictor/prompt-manager-be/internal/store/memory"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func seedPrompt(t *testing.T, st *store.Store, ownerID string) *models.Prompt {
	t.Helper()
	p := &models.Prompt{
		ID:           uuid.New(),
		Title:        "greeting",
		Body:         models.MessageMap{models.RoleUser: {"v1"}},
		Config:       &models.TuningParams{Temperature: floatPtr(0.1)},
		ProjectID:    uuid.New(),
		CollectionID: uuid.New(),
		OwnerID:      ownerID,
		HistoryIDs:   []uuid.UUID{},
	}
	require.NoError(t, st.Prompts.Insert(context.Background(), p))
	return p
}

func TestBodyChangeRecordsPreImage(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()
	p := seedPrompt(t, st, "owner-1")

	updated, err := svc.UpdatePrompt(ctx, "owner-1", p.ID, PromptPatch{
		Body:          models.MessageMap{models.RoleUser: {"v2"}},
		ChangeMessage: "second draft",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MessageMap{models.RoleUser: {"v2"}}, updated.Body)
	require.Len(t, updated.HistoryIDs, 1)

	entries, err := svc.ListHistory(ctx, "owner-1", p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// History holds the state before the edit, not after.
	assert.Equal(t, models.MessageMap{models.RoleUser: {"v1"}}, entries[0].Body)
	assert.Equal(t, "second draft", entries[0].ChangeMessage)
}

func TestCosmeticEditRecordsNothing(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()
	p := seedPrompt(t, st, "owner-1")

	updated, err := svc.UpdatePrompt(ctx, "owner-1", p.ID, PromptPatch{
		Title:       strPtr("renamed"),
		Description: strPtr("desc"),
		Tags:        []string{"a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Empty(t, updated.HistoryIDs)

	entries, err := svc.ListHistory(ctx, "owner-1", p.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSameBodyRecordsNothing(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()
	p := seedPrompt(t, st, "owner-1")

	updated, err := svc.UpdatePrompt(ctx, "owner-1", p.ID, PromptPatch{
		Body: models.MessageMap{models.RoleUser: {"v1"}},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.HistoryIDs)
}

func TestConfigOnlyChangeRecords(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()
	p := seedPrompt(t, st, "owner-1")

	updated, err := svc.UpdatePrompt(ctx, "owner-1", p.ID, PromptPatch{
		Config: &models.TuningParams{Temperature: floatPtr(0.9)},
	})
	require.NoError(t, err)
	require.Len(t, updated.HistoryIDs, 1)
	assert.Equal(t, 0.9, *updated.Config.Temperature)

	entries, err := svc.ListHistory(ctx, "owner-1", p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.1, *entries[0].Config.Temperature)
}

func TestHistoryNewestFirst(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()
	p := seedPrompt(t, st, "owner-1")

	for _, v := range []string{"v2", "v3", "v4"} {
		_, err := svc.UpdatePrompt(ctx, "owner-1", p.ID, PromptPatch{
			Body: models.MessageMap{models.RoleUser: {v}},
		})
		require.NoError(t, err)
	}

	entries, err := svc.ListHistory(ctx, "owner-1", p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.MessageMap{models.RoleUser: {"v3"}}, entries[0].Body)
	assert.Equal(t, models.MessageMap{models.RoleUser: {"v2"}}, entries[1].Body)
	assert.Equal(t, models.MessageMap{models.RoleUser: {"v1"}}, entries[2].Body)
}

func TestRestoreIsANormalEdit(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()
	p := seedPrompt(t, st, "owner-1")

	_, err := svc.UpdatePrompt(ctx, "owner-1", p.ID, PromptPatch{
		Body: models.MessageMap{models.RoleUser: {"v2"}},
	})
	require.NoError(t, err)

	// Restore the oldest snapshot (v1). The v2 state being replaced is
	// snapshotted first, so history grows by one.
	restored, err := svc.Restore(ctx, "owner-1", p.ID, 0, "")
	require.NoError(t, err)
	assert.Equal(t, models.MessageMap{models.RoleUser: {"v1"}}, restored.Body)

	entries, err := svc.ListHistory(ctx, "owner-1", p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.MessageMap{models.RoleUser: {"v2"}}, entries[0].Body)
}

func TestRestoreInvalidIndex(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()
	p := seedPrompt(t, st, "owner-1")

	_, err := svc.Restore(ctx, "owner-1", p.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = svc.Restore(ctx, "owner-1", p.ID, -1, "")
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestHistoryOwnershipScoped(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()
	p := seedPrompt(t, st, "owner-1")

	_, err := svc.ListHistory(ctx, "owner-2", p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.UpdatePrompt(ctx, "owner-2", p.ID, PromptPatch{
		Body: models.MessageMap{models.RoleUser: {"hijack"}},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
