package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/flow-vikunja/internal/flow"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [text...]",
		Short: "Show the result items for launcher text",
		Long: `Show the result items the launcher would display for the given text.
Words are joined with spaces. "lists" fetches task lists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cmd.OutOrStdout(), func(a *app) []flow.Item {
				return a.router.Query(cmd.Context(), strings.Join(args, " "))
			})
		},
	}
}
