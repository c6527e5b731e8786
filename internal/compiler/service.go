package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

// ModelResolver looks up model descriptors. The catalog service satisfies it;
// tests plug in a stub.
type ModelResolver interface {
	ModelByName(ctx context.Context, name string) (*models.LLMModel, error)
}

// Request names the prompt to compile, either directly by id or by title
// within a project, and carries the runtime inputs.
type Request struct {
	PromptID   *uuid.UUID        `json:"prompt_id,omitempty"`
	ProjectID  *uuid.UUID        `json:"project_id,omitempty"`
	PromptName string            `json:"prompt_name,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
	Provider   string            `json:"provider,omitempty"`
	ModelName  string            `json:"model_name,omitempty"`
}

// Result is the compiled payload together with the prompt it came from.
type Result struct {
	TemplateName string         `json:"template_name"`
	Template     map[string]any `json:"template"`
}

// Service resolves prompts and model descriptors and drives the factory.
type Service struct {
	store  *store.Store
	models ModelResolver
}

func NewService(st *store.Store, resolver ModelResolver) *Service {
	return &Service{store: st, models: resolver}
}

// Compile renders the payload for req. The provider is taken from the request
// when set, otherwise from the prompt's linked model descriptor.
func (s *Service) Compile(ctx context.Context, ownerID string, req Request) (*Result, error) {
	prompt, err := s.resolvePrompt(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	descriptor := s.lookupDescriptor(ctx, prompt)
	factory := NewFactory(prompt, descriptor, req.Variables)

	var payload map[string]any
	if req.Provider != "" {
		provider, err := ParseProvider(req.Provider)
		if err != nil {
			return nil, err
		}
		payload, err = factory.Build(provider, req.ModelName)
		if err != nil {
			return nil, err
		}
	} else {
		payload, err = factory.BuildDefault(req.ModelName)
		if err != nil {
			return nil, err
		}
	}

	return &Result{TemplateName: prompt.Title, Template: payload}, nil
}

func (s *Service) resolvePrompt(ctx context.Context, ownerID string, req Request) (*models.Prompt, error) {
	if req.PromptID != nil {
		p, err := s.store.Prompts.Get(ctx, *req.PromptID, ownerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: id %s", ErrMissingTemplate, req.PromptID)
			}
			return nil, fmt.Errorf("get prompt: %w", err)
		}
		return p, nil
	}

	if req.ProjectID == nil || req.PromptName == "" {
		return nil, fmt.Errorf("%w: request names no prompt", ErrMissingTemplate)
	}
	p, err := s.store.Prompts.GetByTitle(ctx, *req.ProjectID, req.PromptName, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q in project %s", ErrMissingTemplate, req.PromptName, req.ProjectID)
		}
		return nil, fmt.Errorf("get prompt by title: %w", err)
	}
	return p, nil
}

// lookupDescriptor is best-effort: a prompt whose model name is absent from
// the catalog still compiles when the request names a provider explicitly.
func (s *Service) lookupDescriptor(ctx context.Context, prompt *models.Prompt) *models.LLMModel {
	if s.models == nil || prompt.ModelName == "" {
		return nil
	}
	descriptor, err := s.models.ModelByName(ctx, prompt.ModelName)
	if err != nil {
		return nil
	}
	return descriptor
}
