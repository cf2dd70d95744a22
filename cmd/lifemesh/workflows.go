package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newWorkflowsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "workflows",
		Short: "List registered workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.mesh(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tSTEPS\tDESCRIPTION")
			for _, info := range m.Workflows() {
				kind := "static"
				if !info.Static {
					kind = "goal"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, kind, strings.Join(info.Steps, " -> "), info.Description)
			}

			return w.Flush()
		},
	}
}
