package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/idstore-tools/idstore/pkg/config"
	"github.com/idstore-tools/idstore/pkg/prompt"
)

func newListUsersInGroupCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users-in-group [groupIdOrName]",
		Short: "List the users of one group, selected by id, name, or interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, *cfg)
			if err != nil {
				return err
			}

			groupArg := ""
			if len(args) == 1 {
				groupArg = args[0]
			}

			err = app.ListUsersInGroup(cmd.Context(), groupArg)
			if errors.Is(err, prompt.ErrCancelled) {
				// Dismissing the prompt is a clean termination, not a failure
				return nil
			}
			return err
		},
	}
}
