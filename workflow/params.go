package workflow

import (
	"fmt"
	"time"

	"github.com/hupe1980/lifemesh/agent"
	"github.com/mitchellh/mapstructure"
)

// agentParams lists the construction params a spec may carry. Unset fields
// keep the agent defaults.
type agentParams struct {
	EnableStreaming    *bool          `mapstructure:"enable_streaming"`
	ToolTimeout        *time.Duration `mapstructure:"tool_timeout"`
	MaxHistoryMessages *int           `mapstructure:"max_history_messages"`
	MaxTurns           *int           `mapstructure:"max_turns"`
	GlobalInstruction  *string        `mapstructure:"global_instruction"`
	Temperature        *float64       `mapstructure:"temperature"`
	MaxTokens          *int           `mapstructure:"max_tokens"`
}

// decodeParams decodes params leniently (strings such as "30s" or "0.2" are
// accepted) but rejects unknown keys.
func decodeParams(params map[string]any) (agentParams, error) {
	var out agentParams
	if len(params) == 0 {
		return out, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return out, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(params); err != nil {
		return out, err
	}

	return out, nil
}

// apply copies the set params onto agent options.
func (p agentParams) apply(o *agent.ModelAgentOptions) {
	if p.EnableStreaming != nil {
		o.EnableStreaming = *p.EnableStreaming
	}
	if p.ToolTimeout != nil {
		o.ToolTimeout = *p.ToolTimeout
	}
	if p.MaxHistoryMessages != nil {
		o.MaxHistoryMessages = *p.MaxHistoryMessages
	}
	if p.MaxTurns != nil {
		o.MaxTurns = *p.MaxTurns
	}
	if p.GlobalInstruction != nil {
		o.GlobalInstruction = agent.NewInstructionFromText(*p.GlobalInstruction)
	}
	if p.Temperature != nil {
		o.Temperature = p.Temperature
	}
	if p.MaxTokens != nil {
		o.MaxTokens = *p.MaxTokens
	}
}
