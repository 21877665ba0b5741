package main

import (
	"github.com/spf13/cobra"

	"github.com/idstore-tools/idstore/pkg/config"
)

func newListGroupsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list-groups [searchTerm]",
		Short: "List groups with exact member counts, optionally filtered by a search term",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, *cfg)
			if err != nil {
				return err
			}

			searchTerm := ""
			if len(args) == 1 {
				searchTerm = args[0]
			}

			return app.ListGroups(cmd.Context(), searchTerm)
		},
	}
}
