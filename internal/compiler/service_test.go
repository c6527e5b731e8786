package compiler

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

type stubResolver struct {
	models map[string]*models.LLMModel
}

func (r *stubResolver) ModelByName(_ context.Context, name string) (*models.LLMModel, error) {
	if m, ok := r.models[name]; ok {
		return m, nil
	}
	return nil, store.ErrNotFound
}

func seedPrompt(t *testing.T, st *store.Store, ownerID string) *models.Prompt {
	t.Helper()
	p := &models.Prompt{
		ID:           uuid.New(),
		Title:        "greeting",
		Body:         models.MessageMap{models.RoleUser: {"Hi {name}"}},
		ModelName:    "gpt-4o",
		ProjectID:    uuid.New(),
		CollectionID: uuid.New(),
		OwnerID:      ownerID,
	}
	require.NoError(t, st.Prompts.Insert(context.Background(), p))
	return p
}

func newTestService(st *store.Store) *Service {
	resolver := &stubResolver{models: map[string]*models.LLMModel{
		"gpt-4o": {Provider: models.ProviderOpenAI, Name: "gpt-4o"},
	}}
	return NewService(st, resolver)
}

func TestCompileByID(t *testing.T) {
	st := memory.New()
	p := seedPrompt(t, st, "owner-1")
	svc := newTestService(st)

	result, err := svc.Compile(context.Background(), "owner-1", Request{
		PromptID:  &p.ID,
		Variables: map[string]string{"name": "Ada"},
	})
	require.NoError(t, err)

	assert.Equal(t, "greeting", result.TemplateName)
	assert.Equal(t, "gpt-4o", result.Template["model"])
	assert.Contains(t, result.Template, "input")
}

func TestCompileByName(t *testing.T) {
	st := memory.New()
	p := seedPrompt(t, st, "owner-1")
	svc := newTestService(st)

	result, err := svc.Compile(context.Background(), "owner-1", Request{
		ProjectID:  &p.ProjectID,
		PromptName: "greeting",
		Variables:  map[string]string{"name": "Ada"},
	})
	require.NoError(t, err)
	assert.Equal(t, "greeting", result.TemplateName)
}

func TestCompileNameMiss(t *testing.T) {
	st := memory.New()
	p := seedPrompt(t, st, "owner-1")
	svc := newTestService(st)

	_, err := svc.Compile(context.Background(), "owner-1", Request{
		ProjectID:  &p.ProjectID,
		PromptName: "no-such-prompt",
		Variables:  map[string]string{"name": "Ada"},
	})
	assert.ErrorIs(t, err, ErrMissingTemplate)
}

func TestCompileOtherOwnersPromptHidden(t *testing.T) {
	st := memory.New()
	p := seedPrompt(t, st, "owner-1")
	svc := newTestService(st)

	_, err := svc.Compile(context.Background(), "owner-2", Request{
		PromptID:  &p.ID,
		Variables: map[string]string{"name": "Ada"},
	})
	assert.ErrorIs(t, err, ErrMissingTemplate)
}

func TestCompileProviderOverride(t *testing.T) {
	st := memory.New()
	p := seedPrompt(t, st, "owner-1")
	svc := newTestService(st)

	result, err := svc.Compile(context.Background(), "owner-1", Request{
		PromptID:  &p.ID,
		Variables: map[string]string{"name": "Ada"},
		Provider:  "anthropic",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Template, "messages")
	assert.Contains(t, result.Template, "max_tokens")
}

func TestCompileUnsupportedProvider(t *testing.T) {
	st := memory.New()
	p := seedPrompt(t, st, "owner-1")
	svc := newTestService(st)

	_, err := svc.Compile(context.Background(), "owner-1", Request{
		PromptID:  &p.ID,
		Variables: map[string]string{"name": "Ada"},
		Provider:  "cohere",
	})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestParseProvider(t *testing.T) {
	for in, want := range map[string]models.Provider{
		"openai":       models.ProviderOpenAI,
		"Anthropic":    models.ProviderAnthropic,
		"google-genai": models.ProviderGoogleGenAI,
		"genai":        models.ProviderGoogleGenAI,
	} {
		got, err := ParseProvider(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseProvider("unknown")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
