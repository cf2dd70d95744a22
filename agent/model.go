package agent

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/flow"
	"github.com/hupe1980/lifemesh/model"
	"github.com/hupe1980/lifemesh/tool"
)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Description        string
	Instruction        Instruction
	GlobalInstruction  Instruction
	Tools              []tool.Tool
	OutputKey          string
	EnableStreaming    bool
	ToolTimeout        time.Duration
	MaxHistoryMessages int
	MaxTurns           int
	Temperature        *float64
	MaxTokens          int
	// Params keeps the raw construction parameters the agent was built from.
	Params map[string]any
}

// ModelAgent answers with a language model, calling its tools until the model
// produces a final text. The final text is stored under OutputKey.
//
// Tools are kept in the order given; Tools returns the same tool values the
// agent was constructed with.
type ModelAgent struct {
	BaseAgent
	llm                model.Model
	instruction        Instruction
	globalInstruction  Instruction
	tools              []tool.Tool
	outputKey          string
	enableStreaming    bool
	toolTimeout        time.Duration
	maxHistoryMessages int
	maxTurns           int
	temperature        *float64
	maxTokens          int
	params             map[string]any
}

// NewModelAgent creates a model-based agent.
//
// Defaults:
//   - instruction "You are <name>, a helpful AI assistant."
//   - streaming disabled
//   - 30 second tool timeout
//   - 20 history messages
//   - 10 model turns
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Instruction:        NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		ToolTimeout:        30 * time.Second,
		MaxHistoryMessages: 20,
		MaxTurns:           10,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	a := &ModelAgent{
		BaseAgent:          NewBaseAgent(name),
		llm:                llm,
		instruction:        opts.Instruction,
		globalInstruction:  opts.GlobalInstruction,
		tools:              slices.Clone(opts.Tools),
		outputKey:          opts.OutputKey,
		enableStreaming:    opts.EnableStreaming,
		toolTimeout:        opts.ToolTimeout,
		maxHistoryMessages: opts.MaxHistoryMessages,
		maxTurns:           opts.MaxTurns,
		temperature:        opts.Temperature,
		maxTokens:          opts.MaxTokens,
		params:             maps.Clone(opts.Params),
	}

	if opts.Description != "" {
		a.SetDescription(opts.Description)
	}

	return a
}

// FindAgent implements core.Agent.
func (a *ModelAgent) FindAgent(name string) core.Agent { return findAgent(a, name) }

// Model returns the language model.
func (a *ModelAgent) Model() model.Model { return a.llm }

// Instruction returns the unresolved instruction.
func (a *ModelAgent) Instruction() Instruction { return a.instruction }

// Tools returns the agent's tools in declaration order.
func (a *ModelAgent) Tools() []tool.Tool { return slices.Clone(a.tools) }

// HasTool reports whether a tool with the given name is available.
func (a *ModelAgent) HasTool(name string) bool {
	return slices.ContainsFunc(a.tools, func(t tool.Tool) bool { return t.Name() == name })
}

// OutputKey returns the session state key the final answer is stored under.
func (a *ModelAgent) OutputKey() string { return a.outputKey }

// Params returns a copy of the construction parameters.
func (a *ModelAgent) Params() map[string]any { return maps.Clone(a.params) }

// IsStreamingEnabled reports whether partial responses are streamed.
func (a *ModelAgent) IsStreamingEnabled() bool { return a.enableStreaming }

// ToolTimeout returns the per tool call timeout.
func (a *ModelAgent) ToolTimeout() time.Duration { return a.toolTimeout }

// MaxHistoryMessages returns the history window sent to the model.
func (a *ModelAgent) MaxHistoryMessages() int { return a.maxHistoryMessages }

// MaxTurns returns the model turn limit for one run.
func (a *ModelAgent) MaxTurns() int { return a.maxTurns }

// Temperature returns the sampling temperature override (nil = provider default).
func (a *ModelAgent) Temperature() *float64 { return a.temperature }

// MaxTokens returns the completion token limit (0 = provider default).
func (a *ModelAgent) MaxTokens() int { return a.maxTokens }

// ResolveInstructions resolves the agent instruction.
func (a *ModelAgent) ResolveInstructions(runCtx *core.RunContext) (string, error) {
	return a.instruction.Resolve(runCtx)
}

// GlobalInstructions resolves the global instruction prepended to the agent's own.
func (a *ModelAgent) GlobalInstructions(runCtx *core.RunContext) (string, error) {
	return a.globalInstruction.Resolve(runCtx)
}

// Run executes the single agent flow attributed to this agent.
func (a *ModelAgent) Run(runCtx *core.RunContext) error {
	rc := runCtx.WithAgent(core.AgentInfo{Name: a.Name(), Type: "model"})

	// Earlier steps may have changed state since the caller's snapshot.
	if err := rc.RefreshSession(); err != nil {
		return err
	}

	rc.LogDebug("agent.run.start", "agent", a.Name(), "model", a.llm.Info().Name, "tools", len(a.tools))

	if err := flow.NewSingleAgentFlow(a).Execute(rc); err != nil {
		rc.LogError("agent.run.error", "agent", a.Name(), "error", err.Error())
		return fmt.Errorf("agent %s: %w", a.Name(), err)
	}

	rc.LogDebug("agent.run.complete", "agent", a.Name())

	return nil
}
