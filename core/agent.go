package core

// Agent defines the interface that every executable unit in lifemesh implements.
//
// Agents receive a RunContext, emit events through it and stage state updates
// (for example the value stored under an agent's output key) that later steps
// of a pipeline can read back from the session.
//
// Implementations must:
//   - Respect context cancellation
//   - Emit events through the provided RunContext
//   - Return an error instead of emitting a partial final answer on failure
type Agent interface {
	Name() string
	Description() string
	Run(runCtx *RunContext) error
	SubAgents() []Agent
	FindAgent(name string) Agent
}

// AgentInfo carries identifying details about an agent used in contexts & events.
// Name is the external identifier; Type categorizes implementation (e.g. "model", "sequential").
type AgentInfo struct{ Name, Type string }
