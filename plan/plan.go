package plan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// GeneratedAgent is one normalized agent of a Plan.
type GeneratedAgent struct {
	// Key is the slug identity of the agent, unique within the plan.
	Key         string
	Name        string
	Description string
	TaskPrompt  string
	// Instruction is the planner supplied instruction; empty when absent.
	Instruction string
	// OutputKey equals Key.
	OutputKey string
}

// Plan is a validated workflow plan.
type Plan struct {
	// Name is the slugified workflow name.
	Name        string
	Description string
	Agents      []GeneratedAgent
}

// AgentNames returns the display names of the plan's agents in order.
func (p *Plan) AgentNames() []string {
	names := make([]string, len(p.Agents))
	for i, a := range p.Agents {
		names[i] = a.Name
	}
	return names
}

// Parse validates and normalizes planner output.
func Parse(text string) (*Plan, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, invalidJSON(err)
	}
	if rest := strings.TrimSpace(text[dec.InputOffset():]); rest != "" {
		return nil, invalidJSON(fmt.Errorf("unexpected data after top-level value"))
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, &PlanError{Message: "Planner payload must be a JSON object."}
	}

	rawName, err := requireText(obj, "workflow_name")
	if err != nil {
		return nil, err
	}

	description, err := requireText(obj, "workflow_description")
	if err != nil {
		return nil, err
	}

	rawAgents, ok := obj["agents"].([]any)
	if !ok || len(rawAgents) == 0 {
		return nil, &PlanError{Field: "agents", Message: "Planner response must include a non-empty 'agents' list."}
	}

	agents := make([]GeneratedAgent, 0, len(rawAgents))
	seen := make(map[string]struct{}, len(rawAgents))

	for i, raw := range rawAgents {
		idx := i + 1

		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, &PlanError{
				Field:   fmt.Sprintf("agents[%d]", i),
				Message: "Each agent entry must be a JSON object with descriptive fields.",
			}
		}

		name, err := requireText(entry, "name")
		if err != nil {
			return nil, err
		}
		agentDescription, err := requireText(entry, "description")
		if err != nil {
			return nil, err
		}
		taskPrompt, err := requireText(entry, "task_prompt")
		if err != nil {
			return nil, err
		}

		var instruction string
		if s, ok := entry["instruction"].(string); ok {
			instruction = strings.TrimSpace(s)
		}

		keySource := any(name)
		for _, k := range []string{"output_key", "key"} {
			if v := entry[k]; truthy(v) {
				keySource = v
				break
			}
		}

		key := Slugify(toString(keySource))
		if _, dup := seen[key]; dup {
			key = fmt.Sprintf("%s_%d", key, idx)
		}
		seen[key] = struct{}{}

		agents = append(agents, GeneratedAgent{
			Key:         key,
			Name:        name,
			Description: agentDescription,
			TaskPrompt:  taskPrompt,
			Instruction: instruction,
			OutputKey:   key,
		})
	}

	return &Plan{Name: Slugify(rawName), Description: description, Agents: agents}, nil
}

func invalidJSON(err error) *PlanError {
	return &PlanError{
		Message: "Agent planner did not return valid JSON. Re-run the planner or refine the goal.",
		Err:     err,
	}
}

func requireText(obj map[string]any, key string) (string, error) {
	s, ok := obj[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", missingText(key)
	}
	return strings.TrimSpace(s), nil
}

// truthy reports whether a decoded JSON value counts as set for key
// selection: null, false, zero, "" and empty containers do not.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slugify turns free text into an identifier: runs of non-alphanumeric
// characters become "_", edge underscores are trimmed and the result is
// lower-cased. Text without any alphanumerics yields "agent".
func Slugify(s string) string {
	slug := strings.ToLower(strings.Trim(nonAlnum.ReplaceAllString(s, "_"), "_"))
	if slug == "" {
		return "agent"
	}
	return slug
}

// DefaultInstruction is the instruction used for agents the planner did not
// give one: call perform_task with the task prompt and return only the
// finished deliverable. Instructions are rendered as Go templates at run
// time, so template delimiters in the task prompt are quoted and reach the
// model literally.
func DefaultInstruction(taskPrompt string) string {
	escaped := strings.ReplaceAll(taskPrompt, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "{{", `{{"{{"}}`)
	return `Call perform_task(task_prompt="` + escaped +
		`", context=<summarize prior outputs as needed>) and return only the finished deliverable.`
}

// InstructionFor returns the agent's own instruction or DefaultInstruction.
func (a GeneratedAgent) InstructionFor() string {
	if a.Instruction != "" {
		return a.Instruction
	}
	return DefaultInstruction(a.TaskPrompt)
}
