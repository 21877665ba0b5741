package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/idstore-tools/idstore/internal/cli"
	"github.com/idstore-tools/idstore/pkg/config"
	"github.com/idstore-tools/idstore/pkg/directory"
	"github.com/idstore-tools/idstore/pkg/logging"
	"github.com/idstore-tools/idstore/pkg/prompt"
)

func newRootCmd() *cobra.Command {
	cfg, envErr := config.FromEnv()

	var noAlign bool

	cmd := &cobra.Command{
		Use:          "idstore",
		Short:        "List groups and users from an AWS IAM Identity Center identity store",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			if noAlign {
				cfg.Align = false
			}

			logCfg := logging.DefaultConfig()
			if cfg.Debug {
				logCfg.Level = logging.LevelDebug
			}
			logging.Setup(logCfg)

			return cfg.Validate()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfg.Profile, "profile", cfg.Profile, "AWS shared config profile")
	pf.StringVar(&cfg.Region, "region", cfg.Region, "AWS region override")
	pf.StringVar(&cfg.IdentityStoreID, "identity-store-id", cfg.IdentityStoreID, "identity store id (default: first SSO instance)")
	pf.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output format: text, json, or table")
	pf.BoolVar(&noAlign, "no-align", false, "disable column alignment for table output")
	pf.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	pf.IntVar(&cfg.MaxConcurrency, "max-concurrency", cfg.MaxConcurrency, "enrichment concurrency ceiling")

	cmd.AddCommand(newListGroupsCmd(&cfg))
	cmd.AddCommand(newListUsersCmd(&cfg))
	cmd.AddCommand(newListUsersInGroupCmd(&cfg))

	return cmd
}

// newApp wires the AWS directory client and the command pipeline.
func newApp(cmd *cobra.Command, cfg config.Config) (*cli.App, error) {
	dir, err := directory.New(cmd.Context(), directory.Config{
		Profile:         cfg.Profile,
		Region:          cfg.Region,
		IdentityStoreID: cfg.IdentityStoreID,
		PageSize:        int32(cfg.PageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("create directory client: %w", err)
	}

	selector := &prompt.Selector{In: os.Stdin, Out: os.Stderr}

	return cli.New(dir, cfg, cmd.OutOrStdout(), selector), nil
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
