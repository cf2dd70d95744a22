// Package registry holds the named, runnable workflows of a lifemesh
// instance. It is populated with static pipelines at start-up and grows when
// goal-driven workflows are registered. Entries are never removed; a second
// registration under the same name replaces the first.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/logging"
)

// ErrNotFound is returned when no workflow is registered under a name.
var ErrNotFound = errors.New("workflow not found")

// Entry is a registered workflow.
type Entry struct {
	Name  string
	Agent core.Agent
}

// Description returns the workflow description.
func (e Entry) Description() string { return e.Agent.Description() }

// Options configures a Registry.
type Options struct {
	Logger logging.Logger
}

// Registry maps workflow names to pipelines, keeping first-registration
// order. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]core.Agent
	order   []string
	logger  logging.Logger
}

// New creates an empty registry.
func New(optFns ...func(o *Options)) *Registry {
	opts := Options{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Registry{entries: map[string]core.Agent{}, logger: opts.Logger}
}

// Register stores agent under name and reports whether an existing entry was
// replaced. A replaced entry keeps its position in Names.
func (r *Registry) Register(name string, agent core.Agent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced := r.entries[name]
	if !replaced {
		r.order = append(r.order, name)
	}
	r.entries[name] = agent

	if replaced {
		r.logger.Warn("registry.workflow.replaced", "workflow", name)
	} else {
		r.logger.Debug("registry.workflow.added", "workflow", name)
	}

	return replaced
}

// Get returns the workflow registered under name.
func (r *Registry) Get(name string) (core.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return a, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Len returns the number of registered workflows.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Names returns the registered names in first-registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Entries returns a consistent snapshot of all entries in Names order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.order))
	for i, name := range r.order {
		out[i] = Entry{Name: name, Agent: r.entries[name]}
	}

	return out
}
