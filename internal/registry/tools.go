package registry

import (
	"context"
	"fmt"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

// ToolHandler executes one tool invocation and returns its text output.
type ToolHandler func(ctx context.Context, args map[string]any) (string, error)

// ToolDescriptor is a registered tool.
type ToolDescriptor struct {
	Name        string
	Description string
	Params      []Param
	Handler     ToolHandler
}

// ToolRegistry maps tool names to descriptors.
type ToolRegistry struct {
	tools *store[ToolDescriptor]
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: newStore[ToolDescriptor]()}
}

// Register inserts a descriptor by name, silently overwriting any
// previous registration of the same name.
func (r *ToolRegistry) Register(desc ToolDescriptor) {
	r.tools.put(desc.Name, desc)
}

// List returns all descriptors in registration order.
func (r *ToolRegistry) List() []ToolDescriptor {
	return r.tools.values()
}

// Get returns the descriptor for a name.
func (r *ToolRegistry) Get(name string) (ToolDescriptor, error) {
	desc, ok := r.tools.get(name)
	if !ok {
		return ToolDescriptor{}, &errdefs.NotFoundError{Kind: "tool", Name: name}
	}
	return desc, nil
}

// Len reports the number of registered tools.
func (r *ToolRegistry) Len() int {
	return r.tools.len()
}

// Invoke runs a tool by name. An unknown name is an error; everything
// the handler itself raises, including argument validation, is
// contained in the returned envelope so the protocol boundary never
// sees a raw failure.
func (r *ToolRegistry) Invoke(ctx context.Context, name string, args map[string]any) (*Envelope, error) {
	desc, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if err := validateArgs(desc.Params, args); err != nil {
		return ErrorEnvelope(err.Error()), nil
	}

	out, err := desc.Handler(ctx, args)
	if err != nil {
		return ErrorEnvelope(err.Error()), nil
	}
	return TextEnvelope(out), nil
}

// validateArgs enforces declared parameter presence and kinds.
func validateArgs(params []Param, args map[string]any) error {
	for _, p := range params {
		value, present := args[p.Name]
		if !present {
			if p.Required {
				return errdefs.NewValidationError("missing required argument %q", p.Name)
			}
			continue
		}
		if err := checkKind(p, value); err != nil {
			return err
		}
	}
	return nil
}

func checkKind(p Param, value any) error {
	switch p.Kind {
	case ParamString:
		s, ok := value.(string)
		if !ok {
			return kindError(p, value)
		}
		if len(p.Enum) > 0 && !enumContains(p.Enum, s) {
			return errdefs.NewValidationError("argument %q must be one of %v, got %q", p.Name, p.Enum, s)
		}
	case ParamNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64:
		default:
			return kindError(p, value)
		}
	case ParamBoolean:
		if _, ok := value.(bool); !ok {
			return kindError(p, value)
		}
	case ParamArray:
		if _, ok := value.([]any); !ok {
			return kindError(p, value)
		}
	}
	return nil
}

func kindError(p Param, value any) error {
	return errdefs.NewValidationError("argument %q must be a %s, got %T", p.Name, p.Kind, value)
}

func enumContains(enum []string, v string) bool {
	for _, e := range enum {
		if e == v {
			return true
		}
	}
	return false
}

// StringArg reads an optional string argument with a default.
func StringArg(args map[string]any, name, fallback string) string {
	if v, ok := args[name].(string); ok && v != "" {
		return v
	}
	return fallback
}

// IntArg reads an optional numeric argument with a default. JSON
// decoding yields float64 for numbers; other integer types pass
// through.
func IntArg(args map[string]any, name string, fallback int64) int64 {
	switch v := args[name].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return fallback
	}
}

// BoolArg reads an optional boolean argument with a default.
func BoolArg(args map[string]any, name string, fallback bool) bool {
	if v, ok := args[name].(bool); ok {
		return v
	}
	return fallback
}

// StringSliceArg reads an optional array argument of strings.
func StringSliceArg(args map[string]any, name string) []string {
	raw, ok := args[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		out = append(out, fmt.Sprint(item))
	}
	return out
}
