package assistant

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hupe1980/lifemesh/tool"
	"github.com/hupe1980/lifemesh/toolset"
	"github.com/hupe1980/lifemesh/workflow"
	"gopkg.in/yaml.v3"
)

// WorkflowDef declares a static workflow as an ordered list of catalogue steps.
type WorkflowDef struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Steps       []StepDef `yaml:"steps"`
}

// StepDef references a catalogue spec by key. The remaining fields are
// overrides applied when the step is materialized.
type StepDef struct {
	Spec        string `yaml:"spec"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Instruction string `yaml:"instruction,omitempty"`
	OutputKey   string `yaml:"output_key,omitempty"`
	Model       string `yaml:"model,omitempty"`
	// Tools replaces the AgentSpec tools by name when present, even if empty.
	Tools  []string       `yaml:"tools,omitempty"`
	Params map[string]any `yaml:"params,omitempty"`
}

// StaticWorkflows returns the built-in workflows.
func StaticWorkflows() []WorkflowDef {
	steps := func(keys ...string) []StepDef {
		out := make([]StepDef, len(keys))
		for i, k := range keys {
			out[i] = StepDef{Spec: k}
		}
		return out
	}

	return []WorkflowDef{
		{
			Name:        "content_creator",
			Description: "Generates ideas, drafts, and formatted Markdown for content creation.",
			Steps:       steps(SpecIdeaGenerator, SpecDraftWriter, SpecMarkdownFormatter),
		},
		{
			Name:        "email_digest",
			Description: "Summarizes inbox activity and emails it to the recipient.",
			Steps:       steps(SpecEmailSummarizer, SpecEmailSender),
		},
		{
			Name:        "personal_assistant",
			Description: "Summarizes files and delivers a daily email digest.",
			Steps:       steps(SpecFileSummary, SpecEmailSummarizer, SpecEmailSender),
		},
		{
			Name:        "procurement_assistant",
			Description: "Searches the web for motorcycles of a specific criteria",
			Steps:       steps(SpecFindMotorcycles, SpecOutputSummarization),
		},
	}
}

type workflowFile struct {
	Workflows []WorkflowDef `yaml:"workflows"`
}

// ParseWorkflows decodes a YAML workflow catalogue. Unknown fields are
// rejected.
func ParseWorkflows(r io.Reader) ([]WorkflowDef, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f workflowFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode workflow catalogue: %w", err)
	}

	for i, def := range f.Workflows {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("workflow catalogue entry %d: name is required", i)
		}
		if len(def.Steps) == 0 {
			return nil, fmt.Errorf("workflow %q: at least one step is required", def.Name)
		}
		for j, s := range def.Steps {
			if strings.TrimSpace(s.Spec) == "" {
				return nil, fmt.Errorf("workflow %q step %d: spec is required", def.Name, j)
			}
		}
	}

	return f.Workflows, nil
}

// LoadWorkflows reads a YAML workflow catalogue from path.
func LoadWorkflows(path string) ([]WorkflowDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	defs, err := ParseWorkflows(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return defs, nil
}

// Steps resolves def against the catalogue. Tool overrides are looked up by
// name in tools.
func (c Catalog) Steps(def WorkflowDef, tools []tool.Tool) ([]workflow.Step, error) {
	steps := make([]workflow.Step, 0, len(def.Steps))

	for i, s := range def.Steps {
		spec, ok := c.Get(s.Spec)
		if !ok {
			return nil, fmt.Errorf("workflow %q step %d: unknown spec %q", def.Name, i, s.Spec)
		}

		overrides := workflow.Overrides{
			Name:        s.Name,
			Description: s.Description,
			Instruction: s.Instruction,
			OutputKey:   s.OutputKey,
			Model:       s.Model,
			Params:      s.Params,
		}

		if s.Tools != nil {
			overrides.Tools = make([]tool.Tool, 0, len(s.Tools))
			for _, name := range s.Tools {
				t, ok := toolset.Lookup(tools, name)
				if !ok {
					return nil, fmt.Errorf("workflow %q step %d: unknown tool %q", def.Name, i, name)
				}
				overrides.Tools = append(overrides.Tools, t)
			}
		}

		steps = append(steps, workflow.Step{Spec: spec, Overrides: overrides})
	}

	return steps, nil
}
