package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teemow/flow-vikunja/internal/flow"
)

func newSetDefaultListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default-list <list-id>",
		Short: "Choose the list new tasks are created in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid list id %q: %w", args[0], err)
			}
			return withApp(cmd.Context(), cmd.OutOrStdout(), func(a *app) []flow.Item {
				return a.router.SetDefaultList(cmd.Context(), id)
			})
		},
	}
}
