// Package cmd provides the command-line interface for kubeops.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// The CLI runs the serve command when no subcommand is specified.
//
// Command Structure:
//
//	kubeops [flags]                 # Starts the MCP server (default)
//	kubeops serve [flags]           # Explicitly starts the MCP server
//	kubeops version                 # Shows version information
//	kubeops self-update             # Updates to latest release
//	kubeops help [command]          # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for command-line integration
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// The streamable-http transport additionally exposes the chunked tool
// invocation gateway (POST /call-tool-chunked), the health probes
// (/healthz, /readyz) and, when instrumentation is enabled, a dedicated
// Prometheus metrics server on its own port.
//
// Serve flags fall back to environment variables when not explicitly
// set, including the access policy source (POLICY_MODE,
// ACCESS_POLICY_FILE), rate limiting (RATE_LIMIT_WINDOW,
// RATE_LIMIT_REQUESTS) and cluster selection (KUBEOPS_CONTEXT,
// KUBEOPS_NAMESPACE).
package cmd
