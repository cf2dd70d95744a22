package agent

import (
	"context"
	"testing"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/internal/testutil"
	"github.com/hupe1980/lifemesh/session"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAgent for testing composite agents.
type MockAgent struct {
	mock.Mock
	BaseAgent
}

func NewMockAgent(name string) *MockAgent {
	return &MockAgent{BaseAgent: NewBaseAgent(name)}
}

func (m *MockAgent) Run(runCtx *core.RunContext) error {
	args := m.Called(runCtx)
	return args.Error(0)
}

func (m *MockAgent) FindAgent(name string) core.Agent { return findAgent(m, name) }

// runAgent runs a in a fresh session and returns the persisted events.
func runAgent(t *testing.T, a core.Agent, userText string) ([]core.Event, *core.Session, error) {
	t.Helper()

	store := session.NewInMemoryStore()
	h, err := testutil.NewRunHarness(context.Background(), store, "s1", userText)
	require.NoError(t, err)
	require.NoError(t, store.AppendEvent("s1", core.NewUserContentEvent("run-test", &h.RunCtx.UserContent)))

	done := make(chan []core.Event, 1)
	go func() { done <- h.Drain() }()

	runErr := a.Run(h.RunCtx)
	close(h.Events)
	events := <-done

	sess, err := store.Get("s1")
	require.NoError(t, err)

	return events, sess, runErr
}
