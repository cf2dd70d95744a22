package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskArgs struct {
	TaskPrompt string `json:"task_prompt" jsonschema:"description=What the step must produce"`
	Context    string `json:"context,omitempty"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(&taskArgs{})

	assert.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "task_prompt")
	require.Contains(t, props, "context")

	tp := props["task_prompt"].(map[string]any)
	assert.Equal(t, "string", tp["type"])
	assert.Equal(t, "What the step must produce", tp["description"])
	assert.Equal(t, []any{"task_prompt"}, schema["required"])
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
		},
		"required": []string{"topic"},
	}

	require.NoError(t, ValidateParameters(map[string]any{"topic": "go", "count": float64(3)}, schema))

	err := ValidateParameters(map[string]any{"count": 1}, schema)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "topic", verr.Field)

	err = ValidateParameters(map[string]any{"topic": 5}, schema)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "topic", verr.Field)

	err = ValidateParameters(map[string]any{"topic": "go", "count": 1.5}, schema)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "count", verr.Field)
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("Call write_content(ideas) where `ideas` is the previous output.", nil)
	require.NoError(t, err)
	assert.Equal(t, "Call write_content(ideas) where `ideas` is the previous output.", out)

	out, err = RenderTemplate(`Ideas: {{.ideas}} / {{default "none" .draft}} / {{.missing}}`, map[string]any{"ideas": "a & b"})
	require.NoError(t, err)
	assert.Equal(t, "Ideas: a & b / none / ", out)

	_, err = RenderTemplate("{{.broken", nil)
	assert.Error(t, err)
}
