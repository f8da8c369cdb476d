package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/flow-vikunja/internal/logging"
	"github.com/teemow/flow-vikunja/internal/server"
	"github.com/teemow/flow-vikunja/internal/tools/vikunja_tools"
)

func newServeCmd() *cobra.Command {
	var (
		readOnly    bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start a Model Context Protocol (MCP) server on stdio that exposes the
plugin's operations (query preview, lists, create task, set default list) as
tools for AI assistants. It uses the same config.json as the launcher.

Safety Mode:
  Use --read-only to register only the tools that do not create tasks or
  change settings.

Metrics:
  With INSTRUMENTATION_ENABLED=true and METRICS_EXPORTER=prometheus,
  --metrics-addr exposes /metrics while the server runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(cmd.Context(), pluginDir)
			defer func() { _ = a.Close() }()

			if metricsAddr == "" {
				metricsAddr = os.Getenv("METRICS_ADDR")
			}
			if metricsAddr != "" {
				metricsServer, err := server.NewMetricsServer(metricsAddr, a.provider.Gatherer(), a.logger)
				if err != nil {
					return err
				}
				if err := metricsServer.Start(); err != nil {
					return err
				}
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
					defer cancel()
					_ = metricsServer.Shutdown(ctx)
				}()
			}

			mcpSrv := newMCPServer(a, readOnly)

			a.logger.Info("starting MCP server", slog.String("transport", "stdio"), slog.Bool("read_only", readOnly))
			return runStdioServer(mcpSrv)
		},
	}

	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Only register tools that do not change state")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address, e.g. 127.0.0.1:9464 (env: METRICS_ADDR)")

	return cmd
}

func newMCPServer(a *app, readOnly bool) *mcpserver.MCPServer {
	mcpSrv := mcpserver.NewMCPServer("flow-vikunja", version,
		mcpserver.WithToolCapabilities(true),
	)
	vikunja_tools.RegisterTools(mcpSrv, a.router, logging.WithOperation(a.logger, "mcp"), readOnly)
	return mcpSrv
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
