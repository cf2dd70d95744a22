package plan

import (
	"encoding/json"

	"github.com/hupe1980/lifemesh/internal/util"
)

// Document mirrors the JSON a planner is asked to produce. Parse does not
// decode into it (it validates field by field); it exists to derive the
// schema shown to the planner and to let callers assemble plans in code.
type Document struct {
	WorkflowName        string          `json:"workflow_name" jsonschema:"description=Short workflow name; it is slugified"`
	WorkflowDescription string          `json:"workflow_description" jsonschema:"description=One sentence describing what the workflow delivers"`
	Agents              []AgentDocument `json:"agents" jsonschema:"minItems=1,description=Agents in execution order"`
}

// AgentDocument is one agent entry of a Document.
type AgentDocument struct {
	Name        string `json:"name" jsonschema:"description=Display name of the agent"`
	Description string `json:"description" jsonschema:"description=What the agent contributes"`
	TaskPrompt  string `json:"task_prompt" jsonschema:"description=Task passed to perform_task"`
	Instruction string `json:"instruction,omitempty" jsonschema:"description=Optional full instruction replacing the default perform_task directive"`
	OutputKey   string `json:"output_key,omitempty" jsonschema:"description=Optional state key for the agent output"`
}

// Schema returns the JSON schema of a planner response as a map.
func Schema() map[string]any { return util.CreateSchema(&Document{}) }

// SchemaJSON returns the indented JSON schema of a planner response.
func SchemaJSON() (string, error) {
	b, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Marshal encodes a document as planner JSON accepted by Parse.
func (d Document) Marshal() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
