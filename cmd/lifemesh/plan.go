package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hupe1980/lifemesh"
	"github.com/hupe1980/lifemesh/plan"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan and register goal-driven workflows",
	}

	cmd.AddCommand(newPlanSchemaCmd(), newPlanRegisterCmd(a), newPlanGoalCmd(a))

	return cmd
}

func newPlanSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema planners must follow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := plan.SchemaJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), schema)
			return err
		},
	}
}

func newPlanRegisterCmd(a *app) *cobra.Command {
	var input string
	var run bool

	cmd := &cobra.Command{
		Use:   "register <file|->",
		Short: "Register a workflow from plan JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			m, err := a.mesh(cmd.Context())
			if err != nil {
				return err
			}

			return registerAndRun(cmd, m, string(data), run, input)
		},
	}

	cmd.Flags().BoolVar(&run, "run", false, "run the workflow after registering it")
	cmd.Flags().StringVar(&input, "input", "", "input for --run")

	return cmd
}

func newPlanGoalCmd(a *app) *cobra.Command {
	var input string
	var run bool

	cmd := &cobra.Command{
		Use:   "goal <goal...>",
		Short: "Plan a workflow for a goal with the default model and register it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.mesh(cmd.Context())
			if err != nil {
				return err
			}

			planText, err := m.PlanGoal(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			return registerAndRun(cmd, m, planText, run, input)
		},
	}

	cmd.Flags().BoolVar(&run, "run", false, "run the workflow after registering it")
	cmd.Flags().StringVar(&input, "input", "", "input for --run")

	return cmd
}

// registerAndRun registers planText and optionally runs the new workflow.
// Goal-driven workflows live in memory, so --run is the only way to use one
// from a single CLI invocation.
func registerAndRun(cmd *cobra.Command, m *lifemesh.Mesh, planText string, run bool, input string) error {
	msg, err := m.RegisterGoalWorkflow(planText)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, msg)
	fmt.Fprintln(out, m.ListGoalWorkflows())

	if !run {
		return nil
	}

	p, err := plan.Parse(planText)
	if err != nil {
		return err
	}

	result, err := m.RunWorkflow(cmd.Context(), p.Name, input)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, result)
	return err
}
