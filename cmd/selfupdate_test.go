package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfUpdateCmdRejectsDevelopmentVersions(t *testing.T) {
	// Actual updates require network access and published releases, so
	// only the guard path is covered here.
	tests := []struct {
		name    string
		version string
	}{
		{"dev version", "dev"},
		{"empty version", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.version)

			cmd := newSelfUpdateCmd()
			cmd.SetArgs([]string{})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "cannot self-update a development version")
		})
	}
}

func TestSelfUpdateCmdProperties(t *testing.T) {
	cmd := newSelfUpdateCmd()
	assert.Equal(t, "self-update", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
}
