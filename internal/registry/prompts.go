package registry

import (
	"context"
	"fmt"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

// PromptArg declares one workflow argument.
type PromptArg struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptMessage is one rendered message.
type PromptMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// PromptResult is a rendered workflow.
type PromptResult struct {
	Description string          `json:"description"`
	Messages    []PromptMessage `json:"messages"`
	// IsError marks results that carry a contained handler failure
	// instead of a rendered workflow.
	IsError bool `json:"isError,omitempty"`
}

// PromptHandler renders one workflow from string arguments.
type PromptHandler func(ctx context.Context, args map[string]string) (*PromptResult, error)

// PromptDescriptor is a registered workflow.
type PromptDescriptor struct {
	Name        string
	Description string
	Args        []PromptArg
	Handler     PromptHandler
}

// PromptRegistry maps workflow names to descriptors.
type PromptRegistry struct {
	prompts *store[PromptDescriptor]
}

// NewPromptRegistry creates an empty prompt registry.
func NewPromptRegistry() *PromptRegistry {
	return &PromptRegistry{prompts: newStore[PromptDescriptor]()}
}

// Register inserts a descriptor by name, silently overwriting any
// previous registration.
func (r *PromptRegistry) Register(desc PromptDescriptor) {
	r.prompts.put(desc.Name, desc)
}

// List returns all descriptors in registration order.
func (r *PromptRegistry) List() []PromptDescriptor {
	return r.prompts.values()
}

// Get returns the descriptor for a name.
func (r *PromptRegistry) Get(name string) (PromptDescriptor, error) {
	desc, ok := r.prompts.get(name)
	if !ok {
		return PromptDescriptor{}, &errdefs.NotFoundError{Kind: "prompt", Name: name}
	}
	return desc, nil
}

// Len reports the number of registered workflows.
func (r *PromptRegistry) Len() int {
	return r.prompts.len()
}

// Render runs a workflow by name. An unknown name is an error; handler
// and argument failures are contained in an error-flagged result, as
// with tool invocations.
func (r *PromptRegistry) Render(ctx context.Context, name string, args map[string]string) (*PromptResult, error) {
	desc, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	for _, arg := range desc.Args {
		if arg.Required && args[arg.Name] == "" {
			return containedPromptError(errdefs.NewValidationError("missing required argument %q", arg.Name)), nil
		}
	}

	result, err := desc.Handler(ctx, args)
	if err != nil {
		return containedPromptError(err), nil
	}
	return result, nil
}

func containedPromptError(err error) *PromptResult {
	return &PromptResult{
		Description: "workflow failed",
		Messages: []PromptMessage{
			{Role: "user", Text: fmt.Sprintf("Error: %s", err)},
		},
		IsError: true,
	}
}
