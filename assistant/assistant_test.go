package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/model"
	"github.com/hupe1980/lifemesh/orchestration"
	"github.com/hupe1980/lifemesh/plan"
	"github.com/hupe1980/lifemesh/registry"
	"github.com/hupe1980/lifemesh/tool"
	"github.com/hupe1980/lifemesh/toolset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlan = "```json\n" + `{
  "workflow_name": "Trip Planner",
  "workflow_description": "Plans a weekend trip.",
  "agents": [
    {"name": "Researcher", "description": "Finds places.", "task_prompt": "List places to visit."},
    {"name": "Writer", "description": "Writes the itinerary.", "task_prompt": "Write an itinerary.", "output_key": "itinerary"}
  ]
}` + "\n```"

func newTestAssistant(t *testing.T, gen toolset.Generator, optFns ...func(o *Options)) (*Assistant, *model.MockModel) {
	t.Helper()

	mock := model.NewMockModel("mock")
	resolver := model.NewCatalog("mock").Register(model.Static(mock))

	fns := append([]func(o *Options){func(o *Options) {
		o.DefaultModel = "mock"
		o.Generator = gen
	}}, optFns...)

	a, err := New(resolver, fns...)
	require.NoError(t, err)

	return a, mock
}

func staticGen(text string) toolset.Generator {
	return toolset.GeneratorFunc(func(context.Context, string) (string, error) { return text, nil })
}

func TestNew_StaticWorkflows(t *testing.T) {
	a, _ := newTestAssistant(t, staticGen("ok"))

	assert.Equal(t, []string{"content_creator", "email_digest", "personal_assistant", "procurement_assistant"}, a.Registry.Names())
	assert.Equal(t, orchestration.NoGoalWorkflowsMessage, a.Registrar.ListGoalWorkflows())

	infos := a.ListWorkflows()
	require.Len(t, infos, 4)
	assert.Equal(t, []string{"IdeaAgent", "WriterAgent", "FormatterAgent"}, infos[0].Steps)
	assert.Equal(t, "Generates ideas, drafts, and formatted Markdown for content creation.", infos[0].Description)
	assert.Equal(t, []string{"FileAgent", "EmailSummaryAgent", "EmailSendAgent"}, infos[2].Steps)
	assert.Equal(t, []string{"MotorcycleResearchAgent", "MotorcycleValidationAgent"}, infos[3].Steps)
	for _, info := range infos {
		assert.True(t, info.Static, info.Name)
	}
}

func TestNew_RootAgent(t *testing.T) {
	a, mock := newTestAssistant(t, staticGen("ok"))

	root := a.Root
	assert.Equal(t, RootName, root.Name())
	assert.Equal(t, "assistant_response", root.OutputKey())
	assert.Same(t, mock, root.Model())
	assert.Equal(t, 15, root.MaxTurns())
	assert.Equal(t, "10m0s", root.ToolTimeout().String())

	var names []string
	for _, tl := range root.Tools() {
		names = append(names, tl.Name())
	}
	assert.Equal(t, []string{
		"generate_ideas", "write_content", "format_draft", "read_files", "summarize_emails",
		"send_email_summary", "procure_motorcycle", "plan_goal_workflow",
		"register_goal_workflow", "list_goal_workflows", "run_workflow", "transfer_to_agent",
	}, names)
	assert.True(t, strings.HasPrefix(root.Instruction().Text(), "You are the primary assistant for the Life project."))
}

func TestNew_TransferTargetsFollowRegistry(t *testing.T) {
	a, _ := newTestAssistant(t, staticGen("ok"))
	transfer := toolset.MustLookup(a.Root.Tools(), tool.TransferToolName)

	call := func(name string) error {
		rc := core.NewRunContext(context.Background(), "s", "r", core.AgentInfo{Name: RootName})
		_, err := transfer.Call(core.NewToolContext(rc, "c1"), map[string]any{"agent": name})
		return err
	}

	require.NoError(t, call("content_creator"))
	require.Error(t, call("trip_planner"))

	_, err := a.Registrar.RegisterGoalWorkflow(toolset.StripCodeFence(validPlan))
	require.NoError(t, err)
	require.NoError(t, call("trip_planner"))
}

func TestCatalog_SharesToolValues(t *testing.T) {
	a, _ := newTestAssistant(t, staticGen("ok"))

	spec, ok := a.Catalog.Get(SpecIdeaGenerator)
	require.True(t, ok)
	assert.Equal(t, "IdeaAgent", spec.Name)
	assert.Equal(t, "ideas", spec.OutputKey)
	require.Len(t, spec.Tools, 1)
	assert.Same(t, toolset.MustLookup(a.Toolsets.All(), "generate_ideas"), spec.Tools[0])
	assert.True(t, a.Root.HasTool("generate_ideas"))

	assert.Len(t, a.Catalog, 8)
	_, ok = a.Catalog.Get("missing")
	assert.False(t, ok)
}

func TestNew_ExtraWorkflows(t *testing.T) {
	defs, err := ParseWorkflows(strings.NewReader(`
workflows:
  - name: quick_post
    description: Ideas straight to Markdown.
    steps:
      - spec: idea_generator
      - spec: markdown_formatter
        name: QuickFormatter
        instruction: "Call format_draft(draft) with the ideas."
        params:
          max_turns: 3
  - name: content_creator
    description: Replaced.
    steps:
      - spec: draft_writer
`))
	require.NoError(t, err)

	a, _ := newTestAssistant(t, staticGen("ok"), func(o *Options) { o.Workflows = defs })

	assert.Equal(t, []string{"content_creator", "email_digest", "personal_assistant", "procurement_assistant", "quick_post"}, a.Registry.Names())

	infos := a.ListWorkflows()
	assert.Equal(t, "Replaced.", infos[0].Description)
	assert.Equal(t, []string{"WriterAgent"}, infos[0].Steps)
	assert.Equal(t, []string{"IdeaAgent", "QuickFormatter"}, infos[4].Steps)
	assert.True(t, infos[4].Static)
}

func TestNew_InvalidExtraWorkflow(t *testing.T) {
	mock := model.NewMockModel("mock")
	resolver := model.NewCatalog("mock").Register(model.Static(mock))

	_, err := New(resolver, func(o *Options) {
		o.Generator = staticGen("ok")
		o.Workflows = []WorkflowDef{{Name: "broken", Steps: []StepDef{{Spec: "nope"}}}}
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown spec "nope"`)

	_, err = New(resolver, func(o *Options) {
		o.Generator = staticGen("ok")
		o.Workflows = []WorkflowDef{{Name: "no_tools", Steps: []StepDef{{Spec: SpecIdeaGenerator, Tools: []string{}}}}}
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least one tool")

	_, err = New(resolver, func(o *Options) {
		o.Generator = staticGen("ok")
		o.Workflows = []WorkflowDef{{Name: "bad_tool", Steps: []StepDef{{Spec: SpecIdeaGenerator, Tools: []string{"teleport"}}}}}
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tool "teleport"`)
}

func TestNew_ResolvesDefaultGenerator(t *testing.T) {
	_, err := New(model.NewCatalog("gpt-x"))
	var unknown *model.UnknownModelError
	require.ErrorAs(t, err, &unknown)
}

func TestParseWorkflows(t *testing.T) {
	defs, err := ParseWorkflows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, defs)

	_, err = ParseWorkflows(strings.NewReader("workflows:\n  - name: x\n    stepz: []\n"))
	require.Error(t, err)

	_, err = ParseWorkflows(strings.NewReader("workflows:\n  - description: no name\n    steps:\n      - spec: draft_writer\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	_, err = ParseWorkflows(strings.NewReader("workflows:\n  - name: empty\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one step")

	_, err = LoadWorkflows("does-not-exist.yaml")
	require.Error(t, err)
}

func TestPlanner_PlanAndRegister(t *testing.T) {
	var prompt string
	gen := toolset.GeneratorFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return validPlan, nil
	})
	a, _ := newTestAssistant(t, gen)

	text, err := a.Planner.Plan(context.Background(), "  plan my weekend  ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "{"))
	assert.Contains(t, prompt, "workflow_description")
	assert.True(t, strings.HasSuffix(prompt, "Goal:\nplan my weekend"))

	msg, err := a.Registrar.RegisterGoalWorkflow(text)
	require.NoError(t, err)
	assert.Contains(t, msg, "Registered workflow 'trip_planner' with agents: Researcher, Writer.")

	assert.Equal(t, "Goal-driven workflows:\n- trip_planner: Plans a weekend trip.", a.Registrar.ListGoalWorkflows())

	infos := a.ListWorkflows()
	last := infos[len(infos)-1]
	assert.Equal(t, "trip_planner", last.Name)
	assert.False(t, last.Static)
}

func TestPlanner_Errors(t *testing.T) {
	a, _ := newTestAssistant(t, staticGen("not json"))

	_, err := a.Planner.Plan(context.Background(), "goal")
	var planErr *plan.PlanError
	require.ErrorAs(t, err, &planErr)

	_, err = a.Planner.Plan(context.Background(), "   ")
	require.Error(t, err)

	failing, _ := newTestAssistant(t, toolset.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("quota")
	}))
	_, err = failing.Planner.Plan(context.Background(), "goal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestWorkflowRunner_RunsContentCreator(t *testing.T) {
	a, mock := newTestAssistant(t, staticGen("ok"))

	mock.ScriptText("idea list")
	mock.ScriptText("draft text")
	mock.ScriptText("# Final")

	out, err := a.Workflows.Run(context.Background(), "content_creator", "Go generics")
	require.NoError(t, err)
	assert.Equal(t, "# Final", out)
	assert.Len(t, mock.Requests(), 3)
}

func TestWorkflowRunner_UnknownWorkflow(t *testing.T) {
	a, _ := newTestAssistant(t, staticGen("ok"))

	_, err := a.Workflows.Run(context.Background(), "missing", "x")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}
