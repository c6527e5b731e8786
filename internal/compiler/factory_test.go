package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/college-predictor/prompt-manager-be/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }

func testPrompt() *models.Prompt {
	return &models.Prompt{
		Title:     "summarize",
		ModelName: "gpt-4o",
		Body: models.MessageMap{
			models.RoleSystem: {"You are a {tone} assistant."},
			models.RoleUser:   {"Summarize: {text}", "Keep it short."},
		},
		Config: &models.TuningParams{
			Temperature: floatPtr(0.2),
			MaxTokens:   intPtr(1024),
		},
	}
}

func TestBuildOpenAIShape(t *testing.T) {
	f := NewFactory(testPrompt(), nil, map[string]string{"tone": "helpful", "text": "hello world"})

	payload, err := f.Build(models.ProviderOpenAI, "")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", payload["model"])
	assert.Equal(t, 0.2, payload["temperature"])
	assert.Equal(t, 1024, payload["max_output_tokens"])
	assert.NotContains(t, payload, "top_p")
	assert.NotContains(t, payload, "stream")

	input, ok := payload["input"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, input, 2)

	assert.Equal(t, "system", input[0]["role"])
	sysBlocks := input[0]["content"].([]map[string]any)
	require.Len(t, sysBlocks, 1)
	assert.Equal(t, "input_text", sysBlocks[0]["type"])
	assert.Equal(t, "You are a helpful assistant.", sysBlocks[0]["text"])

	assert.Equal(t, "user", input[1]["role"])
	userBlocks := input[1]["content"].([]map[string]any)
	require.Len(t, userBlocks, 2)
	assert.Equal(t, "Summarize: hello world", userBlocks[0]["text"])
	assert.Equal(t, "Keep it short.", userBlocks[1]["text"])
}

func TestBuildAnthropicShape(t *testing.T) {
	f := NewFactory(testPrompt(), nil, map[string]string{"tone": "terse", "text": "abc"})

	payload, err := f.Build(models.ProviderAnthropic, "claude-sonnet-4-0")
	require.NoError(t, err)

	assert.Equal(t, "claude-sonnet-4-0", payload["model"])
	assert.Equal(t, 1024, payload["max_tokens"])

	msgs, ok := payload["messages"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0]["role"])
	blocks := msgs[0]["content"].([]map[string]any)
	require.Len(t, blocks, 1)
	assert.Equal(t, "text", blocks[0]["type"])
	assert.Equal(t, "You are a terse assistant.", blocks[0]["text"])
}

func TestBuildAnthropicMaxTokensFallback(t *testing.T) {
	p := testPrompt()
	p.Config = &models.TuningParams{Temperature: floatPtr(0.5)}
	f := NewFactory(p, nil, map[string]string{"tone": "x", "text": "y"})

	payload, err := f.Build(models.ProviderAnthropic, "")
	require.NoError(t, err)
	assert.Equal(t, anthropicMaxTokensFallback, payload["max_tokens"])

	// Also when config is absent entirely.
	p.Config = nil
	payload, err = NewFactory(p, nil, map[string]string{"tone": "x", "text": "y"}).Build(models.ProviderAnthropic, "")
	require.NoError(t, err)
	assert.Equal(t, anthropicMaxTokensFallback, payload["max_tokens"])
}

func TestBuildGenAIShape(t *testing.T) {
	f := NewFactory(testPrompt(), nil, map[string]string{"tone": "calm", "text": "data"})

	payload, err := f.Build(models.ProviderGoogleGenAI, "gemini-2.0-flash")
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", payload["model"])

	config, ok := payload["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "You are a calm assistant.", config["system_instruction"])
	assert.Equal(t, 0.2, config["temperature"])
	assert.Equal(t, 1024, config["max_output_tokens"])

	contents, ok := payload["contents"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"Summarize: data", "Keep it short."}, contents)
}

func TestExplicitZeroParamIncluded(t *testing.T) {
	p := testPrompt()
	p.Config = &models.TuningParams{Temperature: floatPtr(0), Stream: boolPtr(false)}
	f := NewFactory(p, nil, map[string]string{"tone": "x", "text": "y"})

	payload, err := f.Build(models.ProviderOpenAI, "")
	require.NoError(t, err)

	require.Contains(t, payload, "temperature")
	assert.Equal(t, 0.0, payload["temperature"])
	require.Contains(t, payload, "stream")
	assert.Equal(t, false, payload["stream"])
	assert.NotContains(t, payload, "max_output_tokens")
}

func TestMissingVariablesCollected(t *testing.T) {
	p := testPrompt()
	f := NewFactory(p, nil, map[string]string{})

	_, err := f.Build(models.ProviderOpenAI, "")
	require.Error(t, err)

	var mv *MissingVariablesError
	require.ErrorAs(t, err, &mv)
	assert.ElementsMatch(t, []string{"tone", "text"}, mv.Names)
}

func TestRolesEmitCanonicalOrder(t *testing.T) {
	p := testPrompt()
	p.Body = models.MessageMap{
		models.RoleAssistant:   {"prior answer"},
		models.RoleUser:        {"question"},
		models.RoleInstruction: {"be brief"},
		models.RoleDeveloper:   {"dev note"},
		models.RoleSystem:      {"persona"},
	}
	f := NewFactory(p, nil, nil)

	payload, err := f.Build(models.ProviderOpenAI, "")
	require.NoError(t, err)

	input := payload["input"].([]map[string]any)
	var roles []string
	for _, msg := range input {
		roles = append(roles, msg["role"].(string))
	}
	assert.Equal(t, []string{"system", "developer", "instruction", "user", "assistant"}, roles)
}

func TestBuildUnsupportedProvider(t *testing.T) {
	f := NewFactory(testPrompt(), nil, map[string]string{"tone": "x", "text": "y"})

	_, err := f.Build(models.Provider("mistral"), "")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestBuildDefaultUsesDescriptorProvider(t *testing.T) {
	descriptor := &models.LLMModel{Provider: models.ProviderAnthropic, Name: "claude-sonnet-4-0"}
	p := testPrompt()
	p.ModelName = "claude-sonnet-4-0"
	f := NewFactory(p, descriptor, map[string]string{"tone": "x", "text": "y"})

	payload, err := f.BuildDefault("")
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-0", payload["model"])
	assert.Contains(t, payload, "messages")
}

func TestBuildDefaultWithoutDescriptor(t *testing.T) {
	f := NewFactory(testPrompt(), nil, map[string]string{"tone": "x", "text": "y"})

	_, err := f.BuildDefault("")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestModelNameOverride(t *testing.T) {
	f := NewFactory(testPrompt(), nil, map[string]string{"tone": "x", "text": "y"})

	payload, err := f.Build(models.ProviderOpenAI, "gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", payload["model"])
}
