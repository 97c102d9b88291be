// Package errdefs defines the error taxonomy shared by the Kubernetes
// connector, the command translator, the registries and the dispatcher.
//
// Underlying transport errors are always wrapped into one of these types
// before they cross a package boundary; raw client-go errors never reach
// the protocol surface.
package errdefs

import (
	"errors"
	"fmt"
)

// ConnectionError indicates that no credential source could establish a
// working cluster session, or that an established session became
// unreachable. Fatal to session initialization.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cluster connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NotInitializedError indicates an accessor was called before the
// connector finished initializing. This is an ordering defect in the
// caller, not a runtime condition.
type NotInitializedError struct {
	Op string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%s called before client initialization", e.Op)
}

// NotFoundError indicates a named context, namespace, operation, entity
// or workflow does not exist.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// ValidationError indicates malformed or missing request arguments.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// UnsupportedCommandError indicates a verb the command translator does
// not cover. Reported as a feature limitation, never fatal.
type UnsupportedCommandError struct {
	Verb string
}

func (e *UnsupportedCommandError) Error() string {
	return fmt.Sprintf("unsupported command %q", e.Verb)
}

// UnsupportedResourceError indicates a resource type with no alias
// mapping.
type UnsupportedResourceError struct {
	ResourceType string
}

func (e *UnsupportedResourceError) Error() string {
	return fmt.Sprintf("unsupported resource type %q", e.ResourceType)
}

// AuthorizationError indicates a policy denial or rate-limit rejection.
// The message deliberately carries no detail about which rule matched.
type AuthorizationError struct {
	Resource  string
	Operation string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("operation %q on %q is not permitted", e.Operation, e.Resource)
}

// TimeoutError indicates a per-request deadline expired before the
// cluster responded.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsConnectionError reports whether err is a ConnectionError.
func IsConnectionError(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}

// IsNotInitializedError reports whether err is a NotInitializedError.
func IsNotInitializedError(err error) bool {
	var target *NotInitializedError
	return errors.As(err, &target)
}

// IsNotFoundError reports whether err is a NotFoundError.
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsUnsupportedCommandError reports whether err is an UnsupportedCommandError.
func IsUnsupportedCommandError(err error) bool {
	var target *UnsupportedCommandError
	return errors.As(err, &target)
}

// IsUnsupportedResourceError reports whether err is an UnsupportedResourceError.
func IsUnsupportedResourceError(err error) bool {
	var target *UnsupportedResourceError
	return errors.As(err, &target)
}

// IsAuthorizationError reports whether err is an AuthorizationError.
func IsAuthorizationError(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// IsTimeoutError reports whether err is a TimeoutError.
func IsTimeoutError(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}
