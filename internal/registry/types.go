// Package registry holds the three lookup tables requests dispatch
// through: tools (operations), entities (scheme-addressed resources)
// and prompts (workflows). All three share one contract: registration
// by unique key with silent overwrite, listing in registration order,
// and lookup failures reported as not-found errors.
package registry

// ContentType enumerates envelope content parts.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentImage    ContentType = "image"
	ContentResource ContentType = "resource"
)

// Content is one part of an envelope.
type Content struct {
	Type ContentType `json:"type"`
	Text string      `json:"text,omitempty"`
}

// Envelope is the normalized result of a tool invocation. Handler
// failures are carried inside it rather than propagated, so a protocol
// client always receives a well-formed result.
type Envelope struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// TextEnvelope wraps plain text in a success envelope.
func TextEnvelope(text string) *Envelope {
	return &Envelope{Content: []Content{{Type: ContentText, Text: text}}}
}

// ErrorEnvelope wraps an error message in a failure envelope.
func ErrorEnvelope(message string) *Envelope {
	return &Envelope{
		Content: []Content{{Type: ContentText, Text: message}},
		IsError: true,
	}
}

// ParamKind enumerates the argument types tool descriptors declare.
type ParamKind string

const (
	ParamString  ParamKind = "string"
	ParamNumber  ParamKind = "number"
	ParamBoolean ParamKind = "boolean"
	ParamArray   ParamKind = "array"
)

// Param declares one tool argument.
type Param struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Kind        ParamKind `json:"kind"`
	Required    bool      `json:"required,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
}
