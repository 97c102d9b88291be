package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVersion(t *testing.T) {
	withVersion(t, "")

	SetVersion("v9.9.9")
	assert.Equal(t, "v9.9.9", rootCmd.Version)
}

func TestRootCmdProperties(t *testing.T) {
	assert.Equal(t, "kubeops", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmdSubcommands(t *testing.T) {
	expected := map[string]bool{
		"serve":       false,
		"version":     false,
		"self-update": false,
	}
	for _, sub := range rootCmd.Commands() {
		if _, ok := expected[sub.Name()]; ok {
			expected[sub.Name()] = true
		}
	}
	for name, found := range expected {
		assert.True(t, found, "subcommand %s not registered", name)
	}
}

func TestServeCmdFlags(t *testing.T) {
	cmd := newServeCmd()

	for _, name := range []string{
		"kubeconfig", "context", "namespace", "qps-limit", "burst-limit",
		"non-destructive", "dry-run", "allowed-operations",
		"policy-mode", "policy-file", "rate-limit-window", "rate-limit-requests",
		"transport", "http-addr", "sse-endpoint", "message-endpoint",
		"http-endpoint", "metrics-addr", "log-level",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s not defined", name)
	}

	transport, err := cmd.Flags().GetString("transport")
	require.NoError(t, err)
	assert.Equal(t, transportStdio, transport)

	nonDestructive, err := cmd.Flags().GetBool("non-destructive")
	require.NoError(t, err)
	assert.True(t, nonDestructive)
}
