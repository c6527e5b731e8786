package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/college-predictor/prompt-manager-be/internal/models"
)

func TestSubstitute(t *testing.T) {
	out, err := substitute("Hello {name}, welcome to {place}.", map[string]string{
		"name":  "Ada",
		"place": "the lab",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada, welcome to the lab.", out)
}

func TestSubstituteNoPlaceholders(t *testing.T) {
	out, err := substitute("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
}

func TestSubstituteEmptyValue(t *testing.T) {
	// An empty string is a value, not a missing variable.
	out, err := substitute("prefix {x} suffix", map[string]string{"x": ""})
	require.NoError(t, err)
	assert.Equal(t, "prefix  suffix", out)
}

func TestSubstituteRepeatedPlaceholder(t *testing.T) {
	out, err := substitute("{x} and {x}", map[string]string{"x": "both"})
	require.NoError(t, err)
	assert.Equal(t, "both and both", out)
}

func TestExtractVariablesCanonicalOrder(t *testing.T) {
	body := models.MessageMap{
		models.RoleUser:   {"{question} about {topic}"},
		models.RoleSystem: {"You are {persona}. Answer about {topic}."},
	}
	vars := ExtractVariables(body)
	assert.Equal(t, []string{"persona", "topic", "question"}, vars)
}

func TestProcessBodyCollectsAllMissing(t *testing.T) {
	body := models.MessageMap{
		models.RoleSystem: {"{a} and {b}"},
		models.RoleUser:   {"{b} and {c}"},
	}
	_, err := processBody(body, map[string]string{"b": "ok"})
	require.Error(t, err)

	var mv *MissingVariablesError
	require.ErrorAs(t, err, &mv)
	assert.Equal(t, []string{"a", "c"}, mv.Names)
}

func TestProcessBodySkipsEmptyRoles(t *testing.T) {
	body := models.MessageMap{
		models.RoleSystem:    {"persona"},
		models.RoleDeveloper: {},
	}
	out, err := processBody(body, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.RoleSystem, out[0].role)
}
