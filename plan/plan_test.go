package plan

import (
	"testing"

	"github.com/hupe1980/lifemesh/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlan = `{
  "workflow_name": "My Plan!!",
  "workflow_description": "  Drafts a newsletter.  ",
  "agents": [
    {"name": "Researcher", "description": "Finds facts", "task_prompt": "Collect facts about \"Go\"", "instruction": "   "},
    {"name": "Writer", "description": "Writes", "task_prompt": "Write it", "instruction": " Write the newsletter. ", "output_key": "Final Draft"}
  ]
}`

func TestParse_Valid(t *testing.T) {
	p, err := Parse(validPlan)
	require.NoError(t, err)

	assert.Equal(t, "my_plan", p.Name)
	assert.Equal(t, "Drafts a newsletter.", p.Description)
	require.Len(t, p.Agents, 2)

	r := p.Agents[0]
	assert.Equal(t, "researcher", r.Key)
	assert.Equal(t, r.Key, r.OutputKey)
	assert.Empty(t, r.Instruction)
	assert.Equal(t,
		`Call perform_task(task_prompt="Collect facts about \"Go\"", context=<summarize prior outputs as needed>) and return only the finished deliverable.`,
		r.InstructionFor())

	w := p.Agents[1]
	assert.Equal(t, "final_draft", w.Key)
	assert.Equal(t, "Write the newsletter.", w.Instruction)
	assert.Equal(t, "Write the newsletter.", w.InstructionFor())

	assert.Equal(t, []string{"Researcher", "Writer"}, p.AgentNames())
}

func TestParse_KeyCollisionUsesPosition(t *testing.T) {
	p, err := Parse(`{"workflow_name":"w","workflow_description":"d","agents":[
		{"name":"Writer","description":"a","task_prompt":"x"},
		{"name":"writer","description":"b","task_prompt":"y"},
		{"name":"Editor","description":"c","task_prompt":"z","key":"writer"}
	]}`)
	require.NoError(t, err)

	keys := []string{p.Agents[0].Key, p.Agents[1].Key, p.Agents[2].Key}
	assert.Equal(t, []string{"writer", "writer_2", "writer_3"}, keys)
}

func TestParse_KeySourcePrecedence(t *testing.T) {
	p, err := Parse(`{"workflow_name":"w","workflow_description":"d","agents":[
		{"name":"A","description":"a","task_prompt":"x","output_key":"","key":"Alt Key"},
		{"name":"B","description":"b","task_prompt":"y","output_key":0,"key":null},
		{"name":"C","description":"c","task_prompt":"z","output_key":42}
	]}`)
	require.NoError(t, err)

	assert.Equal(t, "alt_key", p.Agents[0].Key)
	assert.Equal(t, "b", p.Agents[1].Key)
	assert.Equal(t, "42", p.Agents[2].Key)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		field   string
		message string
	}{
		{"invalid json", `{"workflow_name":`, "", "valid JSON"},
		{"empty", ``, "", "valid JSON"},
		{"trailing data", `{} {}`, "", "valid JSON"},
		{"not an object", `["a"]`, "", "must be a JSON object"},
		{"missing name", `{"workflow_description":"d","agents":[]}`, "workflow_name", "'workflow_name'"},
		{"blank name", `{"workflow_name":"  ","workflow_description":"d"}`, "workflow_name", "'workflow_name'"},
		{"non-string description", `{"workflow_name":"w","workflow_description":3}`, "workflow_description", "'workflow_description'"},
		{"missing agents", `{"workflow_name":"w","workflow_description":"d"}`, "agents", "non-empty 'agents' list"},
		{"agents not a list", `{"workflow_name":"w","workflow_description":"d","agents":{}}`, "agents", "non-empty 'agents' list"},
		{"empty agents", `{"workflow_name":"w","workflow_description":"d","agents":[]}`, "agents", "non-empty 'agents' list"},
		{"agent not object", `{"workflow_name":"w","workflow_description":"d","agents":["x"]}`, "agents[0]", "must be a JSON object"},
		{"agent missing name", `{"workflow_name":"w","workflow_description":"d","agents":[{"description":"a","task_prompt":"t"}]}`, "name", "'name'"},
		{"agent missing description", `{"workflow_name":"w","workflow_description":"d","agents":[{"name":"a","task_prompt":"t"}]}`, "description", "'description'"},
		{"agent missing task_prompt", `{"workflow_name":"w","workflow_description":"d","agents":[{"name":"a","description":"b"}]}`, "task_prompt", "'task_prompt'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.input)
			assert.Nil(t, p)

			var planErr *PlanError
			require.ErrorAs(t, err, &planErr)
			assert.Equal(t, tt.field, planErr.Field)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParse_InvalidJSONWrapsCause(t *testing.T) {
	_, err := Parse(`nope`)
	var planErr *PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Error(t, planErr.Unwrap())
	assert.Equal(t, "Agent planner did not return valid JSON. Re-run the planner or refine the goal.", planErr.Message)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"My Plan!!":        "my_plan",
		"  Trip -- Planner": "trip_planner",
		"already_slug":     "already_slug",
		"__x__":            "x",
		"!!!":              "agent",
		"":                 "agent",
		"Überblick 2024":   "berblick_2024",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSchemaAndDocumentRoundTrip(t *testing.T) {
	schema := Schema()
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "workflow_name")
	assert.Contains(t, props, "agents")
	assert.ElementsMatch(t, []any{"workflow_name", "workflow_description", "agents"}, schema["required"])

	js, err := SchemaJSON()
	require.NoError(t, err)
	assert.Contains(t, js, "task_prompt")

	doc := Document{
		WorkflowName:        "Blog Flow",
		WorkflowDescription: "Writes a blog post.",
		Agents:              []AgentDocument{{Name: "Writer", Description: "Writes", TaskPrompt: "Write"}},
	}
	text, err := doc.Marshal()
	require.NoError(t, err)

	p, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "blog_flow", p.Name)
	assert.Equal(t, "writer", p.Agents[0].Key)
}

func TestDefaultInstruction_TemplateDelimitersRenderLiterally(t *testing.T) {
	instruction := DefaultInstruction(`Explain {{.Name}} and "{{ name"`)

	rendered, err := util.RenderTemplate(instruction, map[string]any{"Name": "leaked"})
	require.NoError(t, err)
	assert.Equal(t,
		`Call perform_task(task_prompt="Explain {{.Name}} and \"{{ name\"", context=<summarize prior outputs as needed>) and return only the finished deliverable.`,
		rendered)
}
