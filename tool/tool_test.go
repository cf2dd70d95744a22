package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/lifemesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToolContext(id string) *core.ToolContext {
	rc := core.NewRunContext(context.Background(), "sess-1", "run-1", core.AgentInfo{Name: "Agent", Type: "test"})
	return core.NewToolContext(rc, id)
}

func TestFunctionTool_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}

	sumTool := NewFunctionTool("sum", "Add numbers", params, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["a"].(float64) + args["b"].(float64), nil
	})

	result, err := sumTool.Call(newToolContext("fc1"), map[string]any{"a": 2.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	params := map[string]any{
		"type":       "object",
		"properties": map[string]any{"a": map[string]any{"type": "number"}},
		"required":   []any{"a"},
	}
	tTool := NewFunctionTool("test", "Test", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return 0, nil
	})

	_, err := tTool.Call(newToolContext("fc2"), nil)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	boom := errors.New("boom")
	execTool := NewFunctionTool("fail", "Fails", nil, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, boom
	})

	_, err := execTool.Call(newToolContext("fc3"), map[string]any{})

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.ErrorIs(t, err, boom)
}

func TestFunctionTool_ForwardsToolError(t *testing.T) {
	custom := NewToolError("custom", "quota exceeded", "QUOTA")
	tTool := NewFunctionTool("custom", "Custom", nil, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, custom
	})

	_, err := tTool.Call(newToolContext("fc4"), nil)
	assert.Same(t, custom, err)
}

type ideasArgs struct {
	Topic string `json:"topic" jsonschema:"description=Topic to brainstorm"`
}

func TestNewFunctionToolFromStruct(t *testing.T) {
	ft := NewFunctionToolFromStruct("generate_ideas", "Brainstorm", ideasArgs{}, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["topic"], nil
	})

	_, err := ft.Call(newToolContext("fc5"), map[string]any{})
	assert.Error(t, err)

	out, err := ft.Call(newToolContext("fc6"), map[string]any{"topic": "go"})
	require.NoError(t, err)
	assert.Equal(t, "go", out)
}

func TestTextTool(t *testing.T) {
	var got map[string]string
	tt := NewTextTool("perform_task", "Perform a task", []TextParam{
		{Name: "task_prompt", Description: "What to do"},
		{Name: "context", Optional: true},
	}, func(_ *core.ToolContext, args map[string]string) (string, error) {
		got = args
		return "done", nil
	})

	schema := tt.Parameters()
	assert.Equal(t, []string{"task_prompt"}, schema["required"])

	out, err := tt.Call(newToolContext("fc7"), map[string]any{"task_prompt": "write"})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, map[string]string{"task_prompt": "write", "context": ""}, got)

	_, err = tt.Call(newToolContext("fc8"), map[string]any{"task_prompt": 3})
	assert.Error(t, err)
}

func TestTransferToAgentTool(t *testing.T) {
	tt := NewTransferToAgentTool(func(o *TransferOptions) {
		o.Targets = func() []string { return []string{"content_creator", "email_digest"} }
	})
	assert.Equal(t, TransferToolName, tt.Name())
	assert.Equal(t, []string{"agent"}, tt.Parameters()["required"])

	rc := core.NewRunContext(context.Background(), "sess-1", "run-1", core.AgentInfo{Name: "LifeAssistant"})
	tc := core.NewToolContext(rc, "fc9")

	out, err := tt.Call(tc, map[string]any{"agent": " email_digest "})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"transferred": true, "agent": "email_digest"}, out)
	assert.Equal(t, "email_digest", tc.Actions().TransferToAgent)
	assert.Equal(t, "email_digest", rc.TransferTarget())
}

func TestTransferToAgentTool_Errors(t *testing.T) {
	tt := NewTransferToAgentTool(func(o *TransferOptions) {
		o.Targets = func() []string { return []string{"content_creator"} }
	})

	tests := map[string]map[string]any{
		"missing": {},
		"blank":   {"agent": "  "},
		"type":    {"agent": 7},
		"unknown": {"agent": "teleport"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			tc := newToolContext("fc10")
			_, err := tt.Call(tc, args)

			var toolErr *ToolError
			require.ErrorAs(t, err, &toolErr)
			assert.Empty(t, tc.Actions().TransferToAgent)
		})
	}

	_, err := tt.Call(newToolContext("fc11"), map[string]any{"agent": "teleport"})
	assert.Contains(t, err.Error(), "available: content_creator")

	open := NewTransferToAgentTool()
	_, err = open.Call(newToolContext("fc12"), map[string]any{"agent": "anyone"})
	assert.NoError(t, err)
}

func TestDefinitions_PreservesOrder(t *testing.T) {
	a := NewTextTool("a", "A", nil, nil)
	b := NewTextTool("b", "B", nil, nil)

	defs := Definitions([]Tool{b, a})
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].Function.Name)
	assert.Equal(t, "function", defs[1].Type)
}

func TestToolErrorFormatting(t *testing.T) {
	err := NewToolError("demo", "something failed", "E123")
	assert.Contains(t, err.Error(), "E123")
	assert.Contains(t, err.Error(), "demo")
}
