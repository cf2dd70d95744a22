package toolset

import (
	"context"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/tool"
)

// AssistantTools bundles multi-step capabilities for the root assistant.
type AssistantTools struct {
	market *MarketplaceTools
	text   *TextTools
	tools  []tool.Tool
}

// NewAssistantTools creates the assistant toolset.
func NewAssistantTools(market *MarketplaceTools, text *TextTools) *AssistantTools {
	a := &AssistantTools{market: market, text: text}

	a.tools = []tool.Tool{
		tool.NewTextTool("procure_motorcycle", "Run the full motorcycle procurement workflow and return the cleaned JSON report.",
			[]tool.TextParam{{Name: "requirements", Description: "The user's requirements, verbatim.", Optional: true}},
			func(tc *core.ToolContext, args map[string]string) (string, error) {
				raw, err := a.market.SearchMotorcycles(tc.Context(), args["requirements"])
				if err != nil {
					return "", err
				}
				return a.text.finalize(tc.Context(), raw, tc)
			}),
	}

	return a
}

// Tools returns the toolset's tools.
func (a *AssistantTools) Tools() []tool.Tool { return a.tools }

// ProcureMotorcycle searches for listings and finalizes them into a report.
func (a *AssistantTools) ProcureMotorcycle(ctx context.Context, requirements string) (string, error) {
	raw, err := a.market.SearchMotorcycles(ctx, requirements)
	if err != nil {
		return "", err
	}

	return a.text.FinalizeMotorcycleResults(ctx, raw)
}
