package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the kubeops application. It
// is the entry point when the application is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "kubeops",
	Short: "MCP server for Kubernetes operations",
	Long: `kubeops is a Model Context Protocol (MCP) server that provides
tools for interacting with Kubernetes clusters. It offers resource
management, pod operations, context switching, cluster information,
kubectl-style command invocation, hierarchical resource URIs and
guided troubleshooting workflows, all gated by an access policy engine.

When run without subcommands, it starts the MCP server (equivalent to 'kubeops serve').`,
	// SilenceUsage prevents Cobra from printing the usage message on
	// errors the application handles itself.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from main
// to inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kubeops version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newServeCmd())
}
