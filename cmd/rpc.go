package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teemow/flow-vikunja/internal/flow"
)

func newRPCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rpc <request>",
		Short: "Handle a Flow Launcher JSON-RPC request",
		Long: `Handle one Flow Launcher JSON-RPC request, e.g.

  flow-vikunja rpc '{"method":"query","parameters":["Buy milk tomorrow"]}'

The response is written to stdout. Any failure is reported as a result item.
The launcher calls the binary with the request as its only argument, which is
routed here automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cmd.OutOrStdout(), func(a *app) []flow.Item {
				req, err := flow.Decode([]byte(args[0]))
				if err != nil {
					return a.router.Reject(cmd.Context(), "", err)
				}
				return a.router.Handle(cmd.Context(), req)
			})
		},
	}
}
