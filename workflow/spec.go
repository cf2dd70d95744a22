package workflow

import (
	"maps"
	"slices"

	"github.com/hupe1980/lifemesh/tool"
)

// AgentSpec is the declarative description of one agent step. It is a plain
// value: the Factory never mutates it, so one spec may back many agents.
type AgentSpec struct {
	Name        string
	Description string
	// Instruction is opaque template text; it may reference the output keys
	// of earlier steps (e.g. {{.ideas}}).
	Instruction string
	Tools       []tool.Tool
	OutputKey   string
	// Model is an optional model identifier; empty uses the factory default.
	Model string
	// Params holds extra agent construction parameters (see Factory.Create).
	Params map[string]any
}

// Clone returns a copy whose tool slice and params map can be modified
// independently. Tool values themselves are shared.
func (s AgentSpec) Clone() AgentSpec {
	s.Tools = slices.Clone(s.Tools)
	s.Params = maps.Clone(s.Params)
	return s
}

// Overrides replace spec fields for a single materialization. Empty strings
// keep the spec value. A nil Tools keeps the spec tools; a non-nil empty
// slice replaces them and therefore fails construction. Params are merged on
// top of the spec params.
type Overrides struct {
	Name        string
	Description string
	Instruction string
	OutputKey   string
	Model       string
	Tools       []tool.Tool
	Params      map[string]any
}

// Step pairs a spec with the overrides applied when the step is built.
type Step struct {
	Spec      AgentSpec
	Overrides Overrides
}

// NewStep creates an override-free step.
func NewStep(spec AgentSpec) Step { return Step{Spec: spec} }
