// Package compiler renders a stored prompt plus runtime variables into the
// request payload one of the supported LLM providers expects. It is a pure
// transformation: the prompt is read, never mutated, and nothing is sent
// anywhere.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/college-predictor/prompt-manager-be/internal/models"
)

var (
	// ErrUnsupportedProvider is returned for a provider identifier the
	// factory has no payload shape for.
	ErrUnsupportedProvider = errors.New("unsupported llm provider")
	// ErrMissingTemplate is returned when no prompt exists for the requested
	// name/project pair.
	ErrMissingTemplate = errors.New("prompt template not found")
)

// Anthropic rejects requests without a max-token ceiling, so one is always
// emitted; this is the documented default used when the prompt sets none.
const anthropicMaxTokensFallback = 19900

// ParseProvider maps a wire identifier to a known provider.
func ParseProvider(s string) (models.Provider, error) {
	switch strings.ToLower(s) {
	case "openai":
		return models.ProviderOpenAI, nil
	case "anthropic":
		return models.ProviderAnthropic, nil
	case "google-genai", "genai", "google":
		return models.ProviderGoogleGenAI, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
	}
}

// Factory compiles one prompt with one set of runtime variables.
type Factory struct {
	prompt     *models.Prompt
	descriptor *models.LLMModel // nil when the prompt links no model
	variables  map[string]string
}

func NewFactory(prompt *models.Prompt, descriptor *models.LLMModel, variables map[string]string) *Factory {
	if variables == nil {
		variables = map[string]string{}
	}
	return &Factory{prompt: prompt, descriptor: descriptor, variables: variables}
}

// Build renders the payload for an explicitly chosen provider. An empty
// modelName falls back to the prompt's linked descriptor name.
func (f *Factory) Build(provider models.Provider, modelName string) (map[string]any, error) {
	model := f.resolveModelName(modelName)
	messages, err := processBody(f.prompt.Body, f.variables)
	if err != nil {
		return nil, err
	}

	switch provider {
	case models.ProviderOpenAI:
		return f.buildOpenAI(model, messages), nil
	case models.ProviderAnthropic:
		return f.buildAnthropic(model, messages), nil
	case models.ProviderGoogleGenAI:
		return f.buildGenAI(model, messages), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}

// BuildDefault renders the payload for the provider recorded on the prompt's
// model descriptor.
func (f *Factory) BuildDefault(modelName string) (map[string]any, error) {
	if f.descriptor == nil {
		return nil, fmt.Errorf("%w: prompt links no model descriptor", ErrUnsupportedProvider)
	}
	return f.Build(f.descriptor.Provider, modelName)
}

func (f *Factory) resolveModelName(override string) string {
	if override != "" {
		return override
	}
	if f.prompt.ModelName != "" {
		return f.prompt.ModelName
	}
	if f.descriptor != nil {
		return f.descriptor.Name
	}
	return ""
}

func (f *Factory) buildOpenAI(model string, messages []roleMessages) map[string]any {
	input := make([]map[string]any, 0, len(messages))
	for _, rm := range messages {
		blocks := make([]map[string]any, 0, len(rm.texts))
		for _, text := range rm.texts {
			blocks = append(blocks, map[string]any{"type": "input_text", "text": text})
		}
		input = append(input, map[string]any{"role": string(rm.role), "content": blocks})
	}

	payload := map[string]any{
		"model": model,
		"input": input,
	}

	cfg := f.prompt.Config
	if cfg != nil {
		setIfFloat(payload, "temperature", cfg.Temperature)
		setIfInt(payload, "max_output_tokens", cfg.MaxTokens)
		setIfFloat(payload, "top_p", cfg.TopP)
		setIfInt(payload, "top_k", cfg.TopK)
		setIfFloat(payload, "frequency_penalty", cfg.FrequencyPenalty)
		setIfFloat(payload, "presence_penalty", cfg.PresencePenalty)
		if cfg.Stream != nil {
			payload["stream"] = *cfg.Stream
		}
	}
	return payload
}

func (f *Factory) buildAnthropic(model string, messages []roleMessages) map[string]any {
	msgs := make([]map[string]any, 0, len(messages))
	for _, rm := range messages {
		blocks := make([]map[string]any, 0, len(rm.texts))
		for _, text := range rm.texts {
			blocks = append(blocks, map[string]any{"type": "text", "text": text})
		}
		msgs = append(msgs, map[string]any{"role": string(rm.role), "content": blocks})
	}

	payload := map[string]any{
		"model":    model,
		"messages": msgs,
	}

	cfg := f.prompt.Config
	if cfg != nil {
		setIfFloat(payload, "temperature", cfg.Temperature)
		setIfFloat(payload, "top_p", cfg.TopP)
		setIfInt(payload, "top_k", cfg.TopK)
		setIfFloat(payload, "frequency_penalty", cfg.FrequencyPenalty)
		setIfFloat(payload, "presence_penalty", cfg.PresencePenalty)
		if cfg.Stream != nil {
			payload["stream"] = *cfg.Stream
		}
	}
	if cfg != nil && cfg.MaxTokens != nil {
		payload["max_tokens"] = *cfg.MaxTokens
	} else {
		payload["max_tokens"] = anthropicMaxTokensFallback
	}
	return payload
}

func (f *Factory) buildGenAI(model string, messages []roleMessages) map[string]any {
	config := map[string]any{}
	payload := map[string]any{
		"model":  model,
		"config": config,
	}

	for _, rm := range messages {
		switch rm.role {
		case models.RoleSystem:
			config["system_instruction"] = strings.Join(rm.texts, "\n")
		case models.RoleUser:
			contents := make([]string, len(rm.texts))
			copy(contents, rm.texts)
			payload["contents"] = contents
		}
	}

	cfg := f.prompt.Config
	if cfg != nil {
		setIfFloat(config, "temperature", cfg.Temperature)
		setIfInt(config, "max_output_tokens", cfg.MaxTokens)
		setIfFloat(config, "top_p", cfg.TopP)
		setIfInt(config, "top_k", cfg.TopK)
		setIfFloat(config, "frequency_penalty", cfg.FrequencyPenalty)
		setIfFloat(config, "presence_penalty", cfg.PresencePenalty)
	}
	return payload
}

// Inclusion is presence-based: a populated pointer is emitted even when the
// value is zero, an unset one is omitted entirely.

func setIfFloat(m map[string]any, key string, v *float64) {
	if v != nil {
		m[key] = *v
	}
}

func setIfInt(m map[string]any, key string, v *int) {
	if v != nil {
		m[key] = *v
	}
}
