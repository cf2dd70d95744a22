package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/lifemesh"
	"github.com/hupe1980/lifemesh/config"
	"github.com/spf13/cobra"
)

// app carries state shared by the subcommands.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "lifemesh",
		Short: "Personal assistant built from composable LLM agent workflows",
		Long: `lifemesh composes LLM-backed agents into linear workflows that summarize
email, draft blog content and scout marketplace listings. New workflows can be
planned from a goal at runtime.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./lifemesh.yaml or ~/.config/lifemesh/lifemesh.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(
		newRunCmd(a),
		newAskCmd(a),
		newWorkflowsCmd(a),
		newPlanCmd(a),
		newAuthCmd(a),
	)

	return root
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	loader := config.NewLoader().WithConfigFile(a.cfgFile)

	v := loader.Viper()
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		_ = v.BindPFlag("log.level", f)
	}
	if f := cmd.Flags().Lookup("log-format"); f != nil && f.Changed {
		_ = v.BindPFlag("log.format", f)
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	a.cfg = cfg

	return nil
}

// mesh validates the configuration and assembles a Mesh.
func (a *app) mesh(ctx context.Context) (*lifemesh.Mesh, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return lifemesh.NewFromConfig(ctx, a.cfg)
}
