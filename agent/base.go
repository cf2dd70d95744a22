package agent

import (
	"fmt"
	"sync"

	"github.com/hupe1980/lifemesh/core"
)

// BaseAgent bundles identity and hierarchy management. Embed it in concrete
// agent implementations and supply Run and FindAgent to satisfy core.Agent.
// All exported methods are goroutine-safe.
type BaseAgent struct {
	name        string
	description string
	mu          sync.Mutex
	parent      core.Agent
	subAgents   []core.Agent
}

// NewBaseAgent constructs a BaseAgent with a generated description
// (customizable via SetDescription).
func NewBaseAgent(name string) BaseAgent {
	return BaseAgent{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// Name returns the agent name.
func (b *BaseAgent) Name() string { return b.name }

// Description returns the agent description.
func (b *BaseAgent) Description() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.description
}

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.description = desc
}

// Parent returns the parent agent or nil for a root agent.
func (b *BaseAgent) Parent() core.Agent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parent
}

// SubAgents returns a shallow copy of the child agents in order.
func (b *BaseAgent) SubAgents() []core.Agent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]core.Agent, len(b.subAgents))
	copy(out, b.subAgents)
	return out
}

func (b *BaseAgent) setParent(p core.Agent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.parent = p
}

// setSubAgents replaces the children and links them to self. Previous
// children are detached.
func (b *BaseAgent) setSubAgents(self core.Agent, children []core.Agent) {
	b.mu.Lock()
	old := b.subAgents
	b.subAgents = append([]core.Agent(nil), children...)
	b.mu.Unlock()

	for _, child := range old {
		if setter, ok := child.(interface{ setParent(core.Agent) }); ok {
			setter.setParent(nil)
		}
	}
	for _, child := range children {
		if setter, ok := child.(interface{ setParent(core.Agent) }); ok {
			setter.setParent(self)
		}
	}
}

// findAgent performs a depth-first search over the subtree rooted at self
// (including itself) and returns the first agent whose name matches.
func findAgent(self core.Agent, name string) core.Agent {
	if self.Name() == name {
		return self
	}
	for _, child := range self.SubAgents() {
		if found := child.FindAgent(name); found != nil {
			return found
		}
	}
	return nil
}
