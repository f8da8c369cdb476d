package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/flow-vikunja/internal/flow"
	"github.com/teemow/flow-vikunja/internal/query"
)

func newCreateCmd() *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:   "create <title...>",
		Short: "Create a task in the default list",
		Long: `Create a task in the default list, exactly as selecting the launcher
preview would. The title is taken verbatim; use --due for a due date.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if due != "" {
				if _, err := time.Parse(query.DateLayout, due); err != nil {
					return fmt.Errorf("invalid --due %q: expected YYYY-MM-DD", due)
				}
			}
			return withApp(cmd.Context(), cmd.OutOrStdout(), func(a *app) []flow.Item {
				return a.router.CreateTask(cmd.Context(), strings.Join(args, " "), due)
			})
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")

	return cmd
}
