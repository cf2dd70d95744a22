package workflow

import (
	"github.com/hupe1980/lifemesh/agent"
	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/logging"
)

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	Logger logging.Logger
}

// Builder composes strictly sequential pipelines from Steps.
type Builder struct {
	factory *Factory
	logger  logging.Logger
}

// NewBuilder creates a Builder materializing steps with factory.
func NewBuilder(factory *Factory, optFns ...func(o *BuilderOptions)) *Builder {
	opts := BuilderOptions{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Builder{factory: factory, logger: opts.Logger}
}

// Factory returns the factory steps are materialized with.
func (b *Builder) Factory() *Factory { return b.factory }

// Build materializes steps in order and wraps them in a SequentialAgent named
// name. The description defaults to name. The first failing step aborts the
// build with its error.
func (b *Builder) Build(name string, steps []Step, description string) (*agent.SequentialAgent, error) {
	children := make([]core.Agent, 0, len(steps))

	for _, step := range steps {
		a, err := b.factory.Create(step.Spec, step.Overrides)
		if err != nil {
			b.logger.Warn("workflow.build.failed", "workflow", name, "agent", step.Spec.Name, "error", err.Error())
			return nil, err
		}
		children = append(children, a)
	}

	if description == "" {
		description = name
	}

	seq := agent.NewSequentialAgent(name, children...)
	seq.SetDescription(description)

	b.logger.Debug("workflow.build.complete", "workflow", name, "steps", len(children))

	return seq, nil
}

// Inline builds a pipeline from specs without overrides.
func (b *Builder) Inline(name string, specs []AgentSpec, description string) (*agent.SequentialAgent, error) {
	steps := make([]Step, len(specs))
	for i, spec := range specs {
		steps[i] = NewStep(spec)
	}
	return b.Build(name, steps, description)
}
