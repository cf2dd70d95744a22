package toolset

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/lifemesh/model"
	"github.com/hupe1980/lifemesh/tool"
)

// ErrEmptyResponse is returned when the generator produced no text.
var ErrEmptyResponse = model.ErrEmptyResponse

// Generator produces text for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ModelGenerator sends prompts to a model without tools.
type ModelGenerator struct {
	Model model.Model
}

// NewModelGenerator creates a Generator backed by m.
func NewModelGenerator(m model.Model) *ModelGenerator { return &ModelGenerator{Model: m} }

// Generate implements Generator.
func (g *ModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := model.GenerateText(ctx, g.Model, prompt)
	if err != nil && !errors.Is(err, model.ErrEmptyResponse) {
		return "", fmt.Errorf("generate with %s: %w", g.Model.Info().Name, err)
	}
	return text, err
}

// Lookup returns the tool with the given name.
func Lookup(tools []tool.Tool, name string) (tool.Tool, bool) {
	for _, t := range tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// MustLookup is Lookup for statically known names; it panics when name is missing.
func MustLookup(tools []tool.Tool, name string) tool.Tool {
	t, ok := Lookup(tools, name)
	if !ok {
		panic(fmt.Sprintf("toolset: no tool named %q", name))
	}
	return t
}
