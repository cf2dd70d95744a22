package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRunContext() *core.RunContext {
	return core.NewRunContext(context.Background(), "s1", "r1", core.AgentInfo{Name: "pipeline", Type: "sequential"})
}

func TestNewSequentialAgent(t *testing.T) {
	child1 := NewMockAgent("Child1")
	child2 := NewMockAgent("Child2")

	seq := NewSequentialAgent("Pipeline", child1, child2)

	assert.Equal(t, "Pipeline", seq.Name())
	assert.Equal(t, []core.Agent{child1, child2}, seq.SubAgents())
	assert.Equal(t, seq, child1.Parent())
	assert.Equal(t, child2, seq.FindAgent("Child2"))
	assert.Equal(t, seq, seq.FindAgent("Pipeline"))
	assert.Nil(t, seq.FindAgent("missing"))
}

func TestSequentialAgent_RunsInOrder(t *testing.T) {
	var order []string

	children := make([]core.Agent, 0, 3)
	for _, name := range []string{"A", "B", "C"} {
		c := NewMockAgent(name)
		c.On("Run", mock.Anything).Run(func(mock.Arguments) { order = append(order, name) }).Return(nil)
		children = append(children, c)
	}

	seq := NewSequentialAgent("Pipeline", children...)
	require.NoError(t, seq.Run(newRunContext()))
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

func TestSequentialAgent_StopsOnError(t *testing.T) {
	boom := errors.New("boom")

	first := NewMockAgent("First")
	first.On("Run", mock.Anything).Return(boom)
	second := NewMockAgent("Second")

	err := NewSequentialAgent("Pipeline", first, second).Run(newRunContext())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "step 1 (First)")
	second.AssertNotCalled(t, "Run", mock.Anything)
}

func TestSequentialAgent_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	child := NewMockAgent("Child")
	rc := core.NewRunContext(ctx, "s1", "r1", core.AgentInfo{Name: "p"})

	err := NewSequentialAgent("Pipeline", child).Run(rc)
	assert.ErrorIs(t, err, context.Canceled)
	child.AssertNotCalled(t, "Run", mock.Anything)
}

func TestSequentialAgent_OutputKeyHandoff(t *testing.T) {
	ideaLLM := model.NewMockModel("ideas")
	ideaLLM.ScriptText("1. generics\n2. iterators")
	writerLLM := model.NewMockModel("writer")
	writerLLM.ScriptText("A post about generics.")

	ideas := NewModelAgent("IdeaAgent", ideaLLM, func(o *ModelAgentOptions) {
		o.Instruction = NewInstructionFromText("Brainstorm.")
		o.OutputKey = "ideas"
	})
	writer := NewModelAgent("WriterAgent", writerLLM, func(o *ModelAgentOptions) {
		o.Instruction = NewInstructionFromText("Write from these ideas:\n{{.ideas}}")
		o.OutputKey = "draft"
	})

	events, sess, err := runAgent(t, NewSequentialAgent("content_creator", ideas, writer), "Go")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "IdeaAgent", events[0].Author)
	assert.Equal(t, "WriterAgent", events[1].Author)

	reqs := writerLLM.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Write from these ideas:\n1. generics\n2. iterators", reqs[0].Instructions)

	draft, ok := sess.GetState("draft")
	require.True(t, ok)
	assert.Equal(t, "A post about generics.", draft)
}
