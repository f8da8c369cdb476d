package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the flow-vikunja plugin
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow-vikunja",
		Short: "Create Vikunja tasks from Flow Launcher",
		Long: `flow-vikunja is a Flow Launcher plugin that creates tasks in a Vikunja
instance and lets you pick the list they go to.

It can run as:
  - A Flow Launcher JSON-RPC plugin (the launcher passes one JSON argument)
  - A CLI for the same operations, printing launcher result items
  - An MCP (Model Context Protocol) server for AI assistants`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&pluginDir, "plugin-dir", "",
		"Directory holding config.json and the list cache (default: the executable's directory)")

	cmd.AddCommand(newRPCCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newListsCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newSetDefaultListCmd())
	cmd.AddCommand(newConfigureCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newGenerateDocsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// version will be set by main
var version = "dev"

// pluginDir overrides the directory holding config.json and the list cache.
var pluginDir string

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "flow-vikunja version %s\n" .Version}}`)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetArgs(routeArgs(os.Args[1:]))
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

// routeArgs sends a bare JSON argument, as passed by the launcher, to the
// rpc command.
func routeArgs(args []string) []string {
	if len(args) == 1 && strings.HasPrefix(strings.TrimSpace(args[0]), "{") {
		return []string{"rpc", args[0]}
	}
	return args
}
