// Package server provides the HTTP metrics endpoint used while flow-vikunja
// runs as a long-lived MCP server.
//
// Launcher invocations are too short-lived to be scraped and push their
// metrics instead (see the instrumentation package). The MCP server stays up,
// so its registry can also be exposed on /metrics.
package server
