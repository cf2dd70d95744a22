package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/internal/testutil"
	"github.com/hupe1980/lifemesh/model"
	"github.com/hupe1980/lifemesh/session"
	"github.com/hupe1980/lifemesh/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAgent struct {
	name        string
	llm         model.Model
	instruction string
	global      string
	tools       []tool.Tool
	outputKey   string
	stream      bool
	maxHistory  int
	maxTurns    int
	timeout     time.Duration
}

func (a *testAgent) Name() string       { return a.name }
func (a *testAgent) Model() model.Model { return a.llm }
func (a *testAgent) ResolveInstructions(*core.RunContext) (string, error) {
	return a.instruction, nil
}
func (a *testAgent) GlobalInstructions(*core.RunContext) (string, error) { return a.global, nil }
func (a *testAgent) Tools() []tool.Tool                                  { return a.tools }
func (a *testAgent) IsStreamingEnabled() bool                            { return a.stream }
func (a *testAgent) OutputKey() string                                   { return a.outputKey }
func (a *testAgent) MaxHistoryMessages() int                             { return a.maxHistory }
func (a *testAgent) MaxTurns() int                                       { return a.maxTurns }
func (a *testAgent) ToolTimeout() time.Duration                          { return a.timeout }
func (a *testAgent) Temperature() *float64                               { return nil }
func (a *testAgent) MaxTokens() int                                      { return 0 }

func runFlow(t *testing.T, f Flow, userText string) ([]core.Event, *testutil.RunHarness, error) {
	t.Helper()

	store := session.NewInMemoryStore()
	h, err := testutil.NewRunHarness(context.Background(), store, "s1", userText)
	require.NoError(t, err)

	require.NoError(t, store.AppendEvent("s1", core.NewUserContentEvent("run-test", &h.RunCtx.UserContent)))
	require.NoError(t, h.RunCtx.RefreshSession())

	done := make(chan []core.Event, 1)
	go func() { done <- h.Drain() }()

	execErr := f.Execute(h.RunCtx)
	close(h.Events)

	return <-done, h, execErr
}

func TestSingleAgentFlow_TextAnswerWritesOutputKey(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.ScriptText("three ideas")

	agent := &testAgent{name: "IdeaAgent", llm: llm, instruction: `Topic: {{default "any" .topic}}`, outputKey: "ideas"}

	events, h, err := runFlow(t, NewSingleAgentFlow(agent), "go generics")
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "IdeaAgent", events[0].Author)
	assert.Equal(t, "three ideas", events[0].Text())
	assert.True(t, events[0].IsFinalResponse())
	assert.Equal(t, "three ideas", events[0].Actions.StateDelta["ideas"])

	sess, err := h.Store.Get("s1")
	require.NoError(t, err)
	v, ok := sess.GetState("ideas")
	require.True(t, ok)
	assert.Equal(t, "three ideas", v)

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Topic: any", reqs[0].Instructions)
	require.Len(t, reqs[0].Contents, 1)
	assert.Equal(t, "go generics", reqs[0].Contents[0].Text())
}

func TestSingleAgentFlow_FunctionCallRoundTrip(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.ScriptCall("call-1", "shout", `{"text":"hi"}`)
	llm.ScriptText("done: HI")

	shout := tool.NewTextTool("shout", "Upper-cases text.", []tool.TextParam{{Name: "text"}},
		func(_ *core.ToolContext, args map[string]string) (string, error) {
			return "HI", nil
		})

	agent := &testAgent{name: "Shouter", llm: llm, tools: []tool.Tool{shout}, outputKey: "out"}

	events, _, err := runFlow(t, NewSingleAgentFlow(agent), "say hi")
	require.NoError(t, err)
	require.Len(t, events, 3)

	calls := events[0].GetFunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "shout", calls[0].Name)
	assert.Empty(t, events[0].Actions.StateDelta)

	responses := events[1].GetFunctionResponses()
	require.Len(t, responses, 1)
	assert.Equal(t, "call-1", responses[0].ID)
	assert.Equal(t, "HI", responses[0].Response)

	assert.Equal(t, "done: HI", events[2].Text())
	assert.Equal(t, "done: HI", events[2].Actions.StateDelta["out"])

	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	require.Len(t, reqs[0].Tools, 1)
	assert.Equal(t, "shout", reqs[0].Tools[0].Function.Name)
	assert.Len(t, reqs[1].Contents, 3)
}

func TestSingleAgentFlow_Streaming(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.ScriptText("abc")

	agent := &testAgent{name: "Streamer", llm: llm, stream: true}

	events, _, err := runFlow(t, NewSingleAgentFlow(agent), "go")
	require.NoError(t, err)
	require.Len(t, events, 4)

	for _, ev := range events[:3] {
		assert.True(t, ev.IsPartial())
	}
	assert.False(t, events[3].IsPartial())
	assert.Equal(t, "abc", events[3].Text())
}

func TestSingleAgentFlow_ModelError(t *testing.T) {
	boom := errors.New("quota exceeded")
	llm := model.NewMockModel("mock")
	llm.FailWith(boom)

	_, _, err := runFlow(t, NewSingleAgentFlow(&testAgent{name: "A", llm: llm}), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "agent A")
}

func TestSingleAgentFlow_MaxTurns(t *testing.T) {
	llm := model.NewMockModel("mock")
	llm.ScriptCall("c1", "missing", `{}`)
	llm.ScriptCall("c2", "missing", `{}`)

	_, _, err := runFlow(t, NewSingleAgentFlow(&testAgent{name: "Loop", llm: llm, maxTurns: 2}), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxTurnsExceeded)
}
