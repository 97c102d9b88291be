package policy

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

// File is the on-disk policy document. The default policy applies to
// every identity without an explicit mapping.
type File struct {
	Default    Policy            `json:"default" validate:"required"`
	Identities map[string]Policy `json:"identities,omitempty" validate:"omitempty,dive"`
}

// Permissive is the built-in policy that admits every request.
func Permissive() Policy {
	return Policy{
		Name: "permissive",
		Rules: []Rule{
			{Action: ActionAllow, Resource: "*"},
		},
	}
}

// Restrictive is the built-in read-only policy: everything is admitted
// except the mutating tools, and raw command invocations may not carry
// mutating verbs. Later rules override earlier ones.
func Restrictive() Policy {
	return Policy{
		Name: "restrictive",
		Rules: []Rule{
			{Action: ActionAllow, Resource: "*"},
			{Action: ActionDeny, Resource: "tools/kubernetes_delete"},
			{Action: ActionDeny, Resource: "tools/kubernetes_scale"},
			{
				Action:     ActionDeny,
				Resource:   "tools/kubectl",
				Conditions: map[string]any{"verb": []any{"delete", "scale"}},
			},
		},
	}
}

// BuiltinPolicy resolves a policy mode name to its built-in policy.
func BuiltinPolicy(mode string) (Policy, error) {
	switch mode {
	case "", "restrictive":
		return Restrictive(), nil
	case "permissive":
		return Permissive(), nil
	default:
		return Policy{}, errdefs.NewValidationError("unknown policy mode %q", mode)
	}
}

// LoadFile parses and validates a YAML policy document.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errdefs.NewValidationError("parsing policy file %s: %v", path, err)
	}
	if err := validator.New().Struct(&file); err != nil {
		return nil, errdefs.NewValidationError("invalid policy file %s: %v", path, err)
	}
	return &file, nil
}

// NewEngineFromFile builds an engine carrying the document's default
// policy and per-identity mappings.
func NewEngineFromFile(file *File, opts ...Option) *Engine {
	for identity, p := range file.Identities {
		opts = append(opts, WithIdentityPolicy(identity, p))
	}
	return NewEngine(file.Default, opts...)
}
