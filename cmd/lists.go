package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teemow/flow-vikunja/internal/flow"
)

func newListsCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Fetch Vikunja task lists",
		Long: `Fetch the task lists from Vikunja and store them in the local list cache.
With --cached, show the lists from the last fetch without calling Vikunja.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cmd.OutOrStdout(), func(a *app) []flow.Item {
				if cached {
					return a.router.CachedLists(cmd.Context())
				}
				return a.router.FetchLists(cmd.Context())
			})
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Read lists from the local cache")

	return cmd
}
