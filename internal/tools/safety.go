package tools

import (
	"fmt"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SafetyConfig gates mutating operations.
type SafetyConfig struct {
	// NonDestructiveMode blocks mutating operations unless they are
	// explicitly allowed or DryRun is set.
	NonDestructiveMode bool

	// DryRun lets mutating operations through the gate; handlers then
	// report the would-be effect without applying it.
	DryRun bool

	// AllowedOperations lists operations exempt from NonDestructiveMode.
	AllowedOperations []string
}

// MutatingOperations are the operations subject to the safety gate.
var MutatingOperations = []string{"delete", "scale"}

// CheckMutatingOperation verifies that a mutating operation is allowed
// under the current safety configuration. Operations pass when
// NonDestructiveMode is off, DryRun is on, or the operation is listed in
// AllowedOperations.
func CheckMutatingOperation(cfg SafetyConfig, operation string) error {
	if !cfg.NonDestructiveMode || cfg.DryRun {
		return nil
	}
	if slices.Contains(cfg.AllowedOperations, operation) {
		return nil
	}
	return fmt.Errorf("%s operations are not allowed in non-destructive mode (enable dry-run to validate without applying)",
		cases.Title(language.English).String(operation))
}
