package openai

import (
	"testing"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages_OrdersToolResultsAfterCalls(t *testing.T) {
	req := model.Request{
		Instructions: "system prompt",
		Contents: []core.Content{
			core.NewTextContent("user", "summarize"),
			{Role: "assistant", Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "c1", Name: "read_files", Arguments: "{}"}}}},
			{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{ID: "c1", Name: "read_files", Response: map[string]any{"count": 2}}}}},
			core.NewTextContent("assistant", "two files"),
		},
	}

	msgs := buildMessages(req)
	require.Len(t, msgs, 5)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	require.NotNil(t, msgs[2].OfAssistant)
	assert.Len(t, msgs[2].OfAssistant.ToolCalls, 1)
	require.NotNil(t, msgs[3].OfTool)
	assert.Equal(t, "c1", msgs[3].OfTool.ToolCallID)
	assert.NotNil(t, msgs[4].OfAssistant)
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "plain", responseText(core.FunctionResponse{Response: "plain"}))
	assert.Equal(t, `{"n":1}`, responseText(core.FunctionResponse{Response: map[string]any{"n": 1}}))
	assert.Equal(t, "error: boom", responseText(core.FunctionResponse{Error: "boom"}))
}

func TestFinalParts_SortedByIndex(t *testing.T) {
	parts := finalParts("hi", map[int64]*aggCall{
		1: {id: "b", name: "second"},
		0: {id: "a", name: "first"},
	})
	require.Len(t, parts, 3)
	assert.Equal(t, "first", parts[1].(core.FunctionCallPart).FunctionCall.Name)
	assert.Equal(t, "second", parts[2].(core.FunctionCallPart).FunctionCall.Name)
}
