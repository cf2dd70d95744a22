package agent

import (
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/model"
	"github.com/hupe1980/lifemesh/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) tool.Tool {
	return tool.NewTextTool(name, "echo", []tool.TextParam{{Name: "text"}},
		func(_ *core.ToolContext, args map[string]string) (string, error) { return args["text"], nil })
}

func TestNewModelAgent_Defaults(t *testing.T) {
	a := NewModelAgent("Helper", model.NewMockModel("m"))

	assert.Equal(t, "Agent Helper", a.Description())
	assert.Equal(t, "You are Helper, a helpful AI assistant.", a.Instruction().Text())
	assert.False(t, a.IsStreamingEnabled())
	assert.Equal(t, 30*time.Second, a.ToolTimeout())
	assert.Equal(t, 20, a.MaxHistoryMessages())
	assert.Equal(t, 10, a.MaxTurns())
	assert.Nil(t, a.Temperature())
	assert.Empty(t, a.Tools())
}

func TestNewModelAgent_Description(t *testing.T) {
	a := NewModelAgent("Helper", model.NewMockModel("m"), func(o *ModelAgentOptions) {
		o.Description = "Answers questions."
	})
	assert.Equal(t, "Answers questions.", a.Description())

	a.SetDescription("Changed.")
	assert.Equal(t, "Changed.", a.Description())
}

func TestNewModelAgent_ToolsKeepOrderAndIdentity(t *testing.T) {
	first, second := echoTool("b_tool"), echoTool("a_tool")
	a := NewModelAgent("Helper", model.NewMockModel("m"), func(o *ModelAgentOptions) {
		o.Tools = []tool.Tool{first, second}
		o.Params = map[string]any{"max_turns": 3}
	})

	tools := a.Tools()
	require.Len(t, tools, 2)
	assert.Same(t, first, tools[0])
	assert.Same(t, second, tools[1])
	assert.True(t, a.HasTool("a_tool"))
	assert.False(t, a.HasTool("c_tool"))

	tools[0] = nil
	assert.NotNil(t, a.Tools()[0])
	assert.Equal(t, map[string]any{"max_turns": 3}, a.Params())
}

func TestModelAgent_RunWithToolCall(t *testing.T) {
	llm := model.NewMockModel("m")
	llm.ScriptCall("c1", "echo", `{"text":"hello"}`)
	llm.ScriptText("hello back")

	a := NewModelAgent("Echoer", llm, func(o *ModelAgentOptions) {
		o.Tools = []tool.Tool{echoTool("echo")}
		o.OutputKey = "reply"
	})

	events, sess, err := runAgent(t, a, "say hello")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "hello", events[1].GetFunctionResponses()[0].Response)

	reply, ok := sess.GetState("reply")
	require.True(t, ok)
	assert.Equal(t, "hello back", reply)
}

func TestModelAgent_RunWrapsError(t *testing.T) {
	boom := errors.New("unavailable")
	llm := model.NewMockModel("m")
	llm.FailWith(boom)

	_, _, err := runAgent(t, NewModelAgent("Broken", llm), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "agent Broken")
}

func TestInstruction(t *testing.T) {
	static := NewInstructionFromText("static")
	assert.True(t, static.IsStatic())
	got, err := static.Resolve(newRunContext())
	require.NoError(t, err)
	assert.Equal(t, "static", got)

	dynamic := NewInstructionFromFunc(func(rc *core.RunContext) (string, error) {
		return "agent " + rc.Agent.Name, nil
	})
	assert.False(t, dynamic.IsStatic())
	got, err = dynamic.Resolve(newRunContext())
	require.NoError(t, err)
	assert.Equal(t, "agent pipeline", got)

	failing := NewInstructionFromFunc(func(*core.RunContext) (string, error) { return "", errors.New("x") })
	_, err = failing.Resolve(newRunContext())
	assert.Error(t, err)

	assert.True(t, Instruction{}.IsZero())
}
