package toolset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/tool"
)

// ErrEmptySearch is returned when the scouting prompt produced no text.
var ErrEmptySearch = errors.New("Motorcycle search returned an empty response from the model.")

// MarketplaceTools searches marketplaces for motorcycles.
type MarketplaceTools struct {
	gen   Generator
	tools []tool.Tool
}

// NewMarketplaceTools creates the marketplace toolset.
func NewMarketplaceTools(gen Generator) *MarketplaceTools {
	m := &MarketplaceTools{gen: gen}

	m.tools = []tool.Tool{
		tool.NewTextTool("search_motorcycles", "Aggregate marketplace listings for qualifying 2-stroke dirt bikes.",
			[]tool.TextParam{{Name: "requirements", Description: "Extra buyer preferences, treated as soft constraints.", Optional: true}},
			func(tc *core.ToolContext, args map[string]string) (string, error) {
				return m.SearchMotorcycles(tc.Context(), args["requirements"])
			}),
	}

	return m
}

// Tools returns the toolset's tools.
func (m *MarketplaceTools) Tools() []tool.Tool { return m.tools }

// SearchMotorcycles runs the scouting prompt and returns the JSON listing
// payload as produced by the model.
func (m *MarketplaceTools) SearchMotorcycles(ctx context.Context, requirements string) (string, error) {
	prompt := searchPrompt
	if req := strings.TrimSpace(requirements); req != "" {
		prompt += fmt.Sprintf(searchPreferences, req)
	}

	text, err := m.gen.Generate(ctx, prompt)
	if errors.Is(err, ErrEmptyResponse) {
		return "", ErrEmptySearch
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptySearch
	}

	return text, nil
}
