package main

import (
	"github.com/spf13/cobra"

	"github.com/idstore-tools/idstore/pkg/config"
)

func newListUsersCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List all users in the identity store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, *cfg)
			if err != nil {
				return err
			}

			return app.ListUsers(cmd.Context())
		},
	}
}
