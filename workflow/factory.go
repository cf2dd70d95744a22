package workflow

import (
	"maps"
	"slices"

	"github.com/hupe1980/lifemesh/agent"
	"github.com/hupe1980/lifemesh/logging"
	"github.com/hupe1980/lifemesh/model"
)

// FactoryOptions configures a Factory.
type FactoryOptions struct {
	// DefaultModel is used when neither overrides nor spec name a model.
	// Empty defers to the resolver's own default.
	DefaultModel string
	Logger       logging.Logger
}

// Factory materializes AgentSpecs into ModelAgents. It is stateless apart
// from its configuration and safe for concurrent use.
type Factory struct {
	resolver     model.Resolver
	defaultModel string
	logger       logging.Logger
}

// NewFactory creates a Factory resolving model identifiers with resolver.
func NewFactory(resolver model.Resolver, optFns ...func(o *FactoryOptions)) *Factory {
	opts := FactoryOptions{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Factory{resolver: resolver, defaultModel: opts.DefaultModel, logger: opts.Logger}
}

// DefaultModel returns the configured default model identifier.
func (f *Factory) DefaultModel() string { return f.defaultModel }

// Create builds an agent from spec with overrides applied:
//   - model: overrides, else spec, else the factory default
//   - tools: overrides when non-nil (even if empty), else spec; an empty
//     result is a *ConfigurationError
//   - params: spec params, then override params on top
//
// Create has no side effects besides model resolution.
func (f *Factory) Create(spec AgentSpec, overrides Overrides) (*agent.ModelAgent, error) {
	name := firstNonEmpty(overrides.Name, spec.Name)
	if name == "" {
		return nil, &ConfigurationError{Field: "name", Message: "agent name must not be empty"}
	}

	tools := spec.Tools
	if overrides.Tools != nil {
		tools = overrides.Tools
	}
	if len(tools) == 0 {
		return nil, &ConfigurationError{Agent: spec.Name, Field: "tools", Message: "requires at least one tool"}
	}

	params := maps.Clone(spec.Params)
	if params == nil {
		params = map[string]any{}
	}
	maps.Copy(params, overrides.Params)

	decoded, err := decodeParams(params)
	if err != nil {
		return nil, &ConfigurationError{Agent: name, Field: "params", Message: err.Error(), Err: err}
	}

	modelName := firstNonEmpty(overrides.Model, spec.Model, f.defaultModel)

	llm, err := f.resolver.Resolve(modelName)
	if err != nil {
		return nil, &ConfigurationError{Agent: name, Field: "model", Message: err.Error(), Err: err}
	}

	a := agent.NewModelAgent(name, llm, func(o *agent.ModelAgentOptions) {
		o.Description = firstNonEmpty(overrides.Description, spec.Description)
		o.Instruction = agent.NewInstructionFromText(firstNonEmpty(overrides.Instruction, spec.Instruction))
		o.Tools = slices.Clone(tools)
		o.OutputKey = firstNonEmpty(overrides.OutputKey, spec.OutputKey)
		o.Params = params
		decoded.apply(o)
	})

	f.logger.Debug("workflow.agent.created", "agent", name, "model", llm.Info().Name, "tools", len(tools), "output_key", a.OutputKey())

	return a, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
