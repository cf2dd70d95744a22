package main

import (
	"fmt"

	"github.com/hupe1980/lifemesh/workspace"
	"github.com/spf13/cobra"
)

func newAuthCmd(a *app) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Gmail and Drive access",
		Long: `Without --code, auth prints the Google consent URL. Open it, approve the
requested scopes and run auth again with the code shown by Google.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth, err := workspace.NewAuthenticator(a.cfg.Google.CredentialsFile, a.cfg.Google.TokenFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if code == "" {
				fmt.Fprintln(out, "Open this URL and authorize lifemesh:")
				fmt.Fprintln(out, auth.AuthURL("lifemesh"))
				return nil
			}

			if err := auth.Exchange(cmd.Context(), code); err != nil {
				return err
			}

			_, err = fmt.Fprintf(out, "Token saved to %s\n", a.cfg.Google.TokenFile)
			return err
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "authorization code returned by Google")

	return cmd
}
