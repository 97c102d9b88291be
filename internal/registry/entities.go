package registry

import (
	"context"
	"net/url"
	"strings"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

// Coordinates are the parsed cluster coordinates of one entity URI:
// positional path segments bound to the descriptor's segment names,
// plus query parameters with descriptor defaults applied.
type Coordinates struct {
	Segments map[string]string
	Query    map[string]string
}

// QueryParam declares one recognized query parameter and its default.
type QueryParam struct {
	Name    string
	Default string
}

// EntityContent is the payload of one entity read.
type EntityContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

// EntityHandler resolves parsed coordinates into content. Unlike tool
// handlers, entity handler failures propagate to the caller; a failed
// read is a request error.
type EntityHandler func(ctx context.Context, coords Coordinates) (*EntityContent, error)

// EntityDescriptor is a registered URI scheme.
type EntityDescriptor struct {
	// Scheme is the registry key, e.g. "k8s-pod".
	Scheme string
	// URITemplate documents the expected shape, e.g.
	// "k8s-pod://{namespace}/{name}". It is the template named in
	// parse errors.
	URITemplate string
	Description string
	MIMEType    string
	// SegmentNames binds path segments positionally. Every segment is
	// required.
	SegmentNames []string
	// OptionalSegments bind trailing segments beyond the required ones,
	// in order. Absent optional segments are not present in Coordinates.
	OptionalSegments []string
	QueryParams      []QueryParam
	Handler          EntityHandler
}

// EntityRegistry maps URI schemes to descriptors.
type EntityRegistry struct {
	entities *store[EntityDescriptor]
}

// NewEntityRegistry creates an empty entity registry.
func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{entities: newStore[EntityDescriptor]()}
}

// Register inserts a descriptor by scheme, silently overwriting any
// previous registration.
func (r *EntityRegistry) Register(desc EntityDescriptor) {
	r.entities.put(desc.Scheme, desc)
}

// List returns all descriptors in registration order.
func (r *EntityRegistry) List() []EntityDescriptor {
	return r.entities.values()
}

// Get returns the descriptor for a scheme.
func (r *EntityRegistry) Get(scheme string) (EntityDescriptor, error) {
	desc, ok := r.entities.get(scheme)
	if !ok {
		return EntityDescriptor{}, &errdefs.NotFoundError{Kind: "resource scheme", Name: scheme}
	}
	return desc, nil
}

// Len reports the number of registered schemes.
func (r *EntityRegistry) Len() int {
	return r.entities.len()
}

// Read dispatches a URI to its scheme's handler. Handler errors
// propagate.
func (r *EntityRegistry) Read(ctx context.Context, uri string) (*EntityContent, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return nil, errdefs.NewValidationError("malformed resource uri %q", uri)
	}
	desc, err := r.Get(scheme)
	if err != nil {
		return nil, err
	}
	coords, err := parseCoordinates(desc, rest)
	if err != nil {
		return nil, err
	}

	content, err := desc.Handler(ctx, coords)
	if err != nil {
		return nil, err
	}
	if content.URI == "" {
		content.URI = uri
	}
	if content.MIMEType == "" {
		content.MIMEType = desc.MIMEType
	}
	return content, nil
}

// parseCoordinates splits the post-scheme remainder into positional
// segments and query values. Too few segments is a validation error
// naming the descriptor's template.
func parseCoordinates(desc EntityDescriptor, rest string) (Coordinates, error) {
	pathPart, queryPart, _ := strings.Cut(rest, "?")

	var segments []string
	for _, seg := range strings.Split(pathPart, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) < len(desc.SegmentNames) ||
		len(segments) > len(desc.SegmentNames)+len(desc.OptionalSegments) {
		return Coordinates{}, errdefs.NewValidationError(
			"uri must match %s, got %d path segment(s)", desc.URITemplate, len(segments))
	}

	names := append(append([]string{}, desc.SegmentNames...), desc.OptionalSegments...)
	coords := Coordinates{
		Segments: make(map[string]string, len(segments)),
		Query:    make(map[string]string, len(desc.QueryParams)),
	}
	for i, seg := range segments {
		unescaped, err := url.PathUnescape(seg)
		if err != nil {
			return Coordinates{}, errdefs.NewValidationError("invalid path segment %q", seg)
		}
		coords.Segments[names[i]] = unescaped
	}

	values, err := url.ParseQuery(queryPart)
	if err != nil {
		return Coordinates{}, errdefs.NewValidationError("invalid query string %q", queryPart)
	}
	for _, qp := range desc.QueryParams {
		if v := values.Get(qp.Name); v != "" {
			coords.Query[qp.Name] = v
		} else {
			coords.Query[qp.Name] = qp.Default
		}
	}
	return coords, nil
}
