// Package cmd implements the command-line interface for flow-vikunja.
//
// This package provides the following commands:
//   - rpc: Handle one Flow Launcher JSON-RPC request (used by the launcher)
//   - query: Show the result items for launcher text
//   - lists: Fetch task lists, or show the cached ones with --cached
//   - create: Create a task in the default list
//   - set-default-list: Choose the default list
//   - configure: Write the Vikunja URL and token to config.json
//   - serve: Start the MCP server on stdio
//   - generate-docs: Generate markdown documentation for the MCP tools
//   - version: Display version information
//
// When the binary is called with a single JSON argument, as the launcher
// does, the argument is handled by the rpc command.
package cmd
