package tool

import (
	"fmt"

	"github.com/hupe1980/lifemesh/core"
)

// TextParam declares one string argument of a text tool.
type TextParam struct {
	Name        string
	Description string
	Optional    bool
}

// TextFunc implements a text tool. Every declared parameter is present in
// args; omitted optional parameters are empty strings.
type TextFunc func(toolCtx *core.ToolContext, args map[string]string) (string, error)

// NewTextTool builds a FunctionTool whose parameters are all strings and
// whose result is a single string.
func NewTextTool(name, description string, params []TextParam, fn TextFunc) *FunctionTool {
	properties := make(map[string]any, len(params))
	required := make([]string, 0, len(params))

	for _, p := range params {
		prop := map[string]any{"type": "string"}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
		if !p.Optional {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}

	return NewFunctionTool(name, description, schema, func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
		text := make(map[string]string, len(params))
		for _, p := range params {
			switch v := args[p.Name].(type) {
			case nil:
				text[p.Name] = ""
			case string:
				text[p.Name] = v
			default:
				text[p.Name] = fmt.Sprint(v)
			}
		}
		return fn(toolCtx, text)
	})
}
