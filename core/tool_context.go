package core

import (
	"context"
	"errors"
	"maps"

	"github.com/hupe1980/lifemesh/logging"
)

// ErrNoArtifactStore is returned by artifact helpers when the run has no
// ArtifactStore configured.
var ErrNoArtifactStore = errors.New("artifact store not configured")

// ToolContext is the surface a tool implementation sees while it runs. State
// and artifact changes accumulate in EventActions and are attached to the
// function response event by the flow.
type ToolContext struct {
	runCtx         *RunContext
	functionCallID string
	actions        EventActions

	*loggerAdapter
}

// NewToolContext binds a tool context to a parent RunContext and function call ID.
func NewToolContext(runCtx *RunContext, functionCallID string) *ToolContext {
	return &ToolContext{
		runCtx:         runCtx,
		functionCallID: functionCallID,
		loggerAdapter:  newLoggerAdapter(runCtx.Logger(), "function_call_id", functionCallID),
	}
}

// Context returns the cancellation context of the run.
func (tc *ToolContext) Context() context.Context { return tc.runCtx.Context }

// SessionID returns the session the tool runs in.
func (tc *ToolContext) SessionID() string { return tc.runCtx.SessionID }

// RunID returns the run the tool belongs to.
func (tc *ToolContext) RunID() string { return tc.runCtx.RunID }

// Logger returns the run logger.
func (tc *ToolContext) Logger() logging.Logger { return tc.loggerAdapter.Logger() }

// FunctionCallID correlates the model's request with this execution.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// AgentName returns the name of the agent that invoked the tool.
func (tc *ToolContext) AgentName() string { return tc.runCtx.Agent.Name }

// GetState reads session state (including staged values).
func (tc *ToolContext) GetState(k string) (any, bool) { return tc.runCtx.GetState(k) }

// SetState stages a state mutation emitted with the function response.
func (tc *ToolContext) SetState(k string, v any) {
	if tc.actions.StateDelta == nil {
		tc.actions.StateDelta = map[string]any{}
	}
	tc.actions.StateDelta[k] = v
}

// SaveArtifact persists data under id and records its size for emission.
func (tc *ToolContext) SaveArtifact(id string, data []byte) error {
	if tc.runCtx.ArtifactStore == nil {
		return ErrNoArtifactStore
	}

	if err := tc.runCtx.ArtifactStore.Save(tc.SessionID(), id, data); err != nil {
		return err
	}

	if tc.actions.ArtifactDelta == nil {
		tc.actions.ArtifactDelta = map[string]int{}
	}
	tc.actions.ArtifactDelta[id] = len(data)

	return nil
}

// TransferToAgent hands the conversation to the named agent once the calling
// agent's current turn ends.
func (tc *ToolContext) TransferToAgent(agentName string) {
	tc.actions.TransferToAgent = agentName
	tc.runCtx.RequestTransfer(agentName)
}

// LoadArtifact reads a previously saved artifact.
func (tc *ToolContext) LoadArtifact(id string) ([]byte, error) {
	if tc.runCtx.ArtifactStore == nil {
		return nil, ErrNoArtifactStore
	}
	return tc.runCtx.ArtifactStore.Get(tc.SessionID(), id)
}

// Actions returns the accumulated actions.
func (tc *ToolContext) Actions() EventActions { return tc.actions }

// ApplyActions merges the accumulated actions into ev.
func (tc *ToolContext) ApplyActions(ev *Event) {
	if len(tc.actions.StateDelta) > 0 {
		if ev.Actions.StateDelta == nil {
			ev.Actions.StateDelta = map[string]any{}
		}
		maps.Copy(ev.Actions.StateDelta, tc.actions.StateDelta)
	}
	if len(tc.actions.ArtifactDelta) > 0 {
		if ev.Actions.ArtifactDelta == nil {
			ev.Actions.ArtifactDelta = map[string]int{}
		}
		maps.Copy(ev.Actions.ArtifactDelta, tc.actions.ArtifactDelta)
	}
	if tc.actions.TransferToAgent != "" {
		ev.Actions.TransferToAgent = tc.actions.TransferToAgent
	}
}
