package agent

import (
	"fmt"

	"github.com/hupe1980/lifemesh/core"
)

// SequentialAgent runs its children one after another in declaration order.
// Each child sees the session state written by the children before it. The
// first failing child stops the pipeline.
type SequentialAgent struct {
	BaseAgent
}

// NewSequentialAgent creates a sequential pipeline over children.
func NewSequentialAgent(name string, children ...core.Agent) *SequentialAgent {
	a := &SequentialAgent{BaseAgent: NewBaseAgent(name)}
	a.setSubAgents(a, children)
	return a
}

// FindAgent implements core.Agent.
func (a *SequentialAgent) FindAgent(name string) core.Agent { return findAgent(a, name) }

// Run executes every child in order.
func (a *SequentialAgent) Run(runCtx *core.RunContext) error {
	children := a.SubAgents()

	runCtx.LogDebug("agent.sequential.start", "agent", a.Name(), "steps", len(children))

	for i, child := range children {
		if err := runCtx.Err(); err != nil {
			return err
		}

		runCtx.LogDebug("agent.sequential.step", "agent", a.Name(), "step", i+1, "child", child.Name())

		if err := child.Run(runCtx); err != nil {
			runCtx.LogError("agent.sequential.step.error", "agent", a.Name(), "child", child.Name(), "error", err.Error())
			return fmt.Errorf("sequential agent %s step %d (%s): %w", a.Name(), i+1, child.Name(), err)
		}
	}

	runCtx.LogDebug("agent.sequential.complete", "agent", a.Name())

	return nil
}
