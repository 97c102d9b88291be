package output

// Limits for list responses. Tuned for LLM context windows rather than
// human terminals.
const (
	// DefaultMaxItems is the default maximum number of resources returned per list.
	DefaultMaxItems = 100

	// AbsoluteMaxItems caps the limit even when callers ask for more.
	AbsoluteMaxItems = 1000
)

// RedactedValue replaces masked secret data.
const RedactedValue = "***REDACTED***"

// Config controls how resource payloads are prepared before rendering.
type Config struct {
	// MaxItems limits the number of resources returned per list.
	MaxItems int `json:"maxItems" yaml:"maxItems"`

	// SlimOutput removes verbose fields that rarely help AI agents.
	SlimOutput bool `json:"slimOutput" yaml:"slimOutput"`

	// MaskSecrets replaces Secret data with RedactedValue.
	MaskSecrets bool `json:"maskSecrets" yaml:"maskSecrets"`

	// ExcludedFields lists dot-separated paths removed in slim mode.
	ExcludedFields []string `json:"excludedFields,omitempty" yaml:"excludedFields,omitempty"`
}

// DefaultConfig returns the limits used when no overrides are supplied.
func DefaultConfig() Config {
	return Config{
		MaxItems:       DefaultMaxItems,
		SlimOutput:     true,
		MaskSecrets:    true,
		ExcludedFields: DefaultExcludedFields(),
	}
}

// DefaultExcludedFields lists verbose fields removed in slim mode.
func DefaultExcludedFields() []string {
	return []string{
		"metadata.managedFields",
		"metadata.annotations.kubectl.kubernetes.io/last-applied-configuration",
	}
}
