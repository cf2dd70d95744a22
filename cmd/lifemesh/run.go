package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <workflow> [input...]",
		Short: "Run a registered workflow",
		Example: `  lifemesh run content_creator "Go generics"
  lifemesh run email_digest`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.mesh(cmd.Context())
			if err != nil {
				return err
			}

			out, err := m.RunWorkflow(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func newAskCmd(a *app) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "ask <message...>",
		Short: "Send a message to the LifeAssistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.mesh(cmd.Context())
			if err != nil {
				return err
			}

			out, err := m.Ask(cmd.Context(), sessionID, strings.Join(args, " "))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "cli", "session id")

	return cmd
}
