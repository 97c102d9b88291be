package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMutatingOperation(t *testing.T) {
	t.Run("allowed when non-destructive mode is off", func(t *testing.T) {
		assert.NoError(t, CheckMutatingOperation(SafetyConfig{}, "delete"))
	})

	t.Run("blocked in non-destructive mode", func(t *testing.T) {
		err := CheckMutatingOperation(SafetyConfig{NonDestructiveMode: true}, "delete")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Delete operations are not allowed")
	})

	t.Run("dry run bypasses the gate", func(t *testing.T) {
		cfg := SafetyConfig{NonDestructiveMode: true, DryRun: true}
		assert.NoError(t, CheckMutatingOperation(cfg, "scale"))
	})

	t.Run("explicitly allowed operation passes", func(t *testing.T) {
		cfg := SafetyConfig{NonDestructiveMode: true, AllowedOperations: []string{"scale"}}
		assert.NoError(t, CheckMutatingOperation(cfg, "scale"))
		assert.Error(t, CheckMutatingOperation(cfg, "delete"))
	})
}
