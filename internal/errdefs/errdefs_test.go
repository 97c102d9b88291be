package errdefs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapping(t *testing.T) {
	t.Run("connection error unwraps to cause", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		err := &ConnectionError{Err: cause}

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("wrapped errors are still detectable", func(t *testing.T) {
		inner := &NotFoundError{Kind: "context", Name: "staging"}
		wrapped := fmt.Errorf("switching context: %w", inner)

		assert.True(t, IsNotFoundError(wrapped))
		assert.False(t, IsValidationError(wrapped))
	})

	t.Run("timeout error unwraps", func(t *testing.T) {
		cause := errors.New("context deadline exceeded")
		err := &TimeoutError{Op: "list pods", Err: cause}

		assert.True(t, IsTimeoutError(err))
		assert.ErrorIs(t, err, cause)
	})
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found names kind and key",
			err:  &NotFoundError{Kind: "operation", Name: "kubernetes_get"},
			want: `operation "kubernetes_get" not found`,
		},
		{
			name: "unsupported command names verb",
			err:  &UnsupportedCommandError{Verb: "rollout"},
			want: `unsupported command "rollout"`,
		},
		{
			name: "unsupported resource names type",
			err:  &UnsupportedResourceError{ResourceType: "widgets"},
			want: `unsupported resource type "widgets"`,
		},
		{
			name: "not initialized names operation",
			err:  &NotInitializedError{Op: "ListContexts"},
			want: "ListContexts called before client initialization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAuthorizationErrorHidesRuleDetail(t *testing.T) {
	err := &AuthorizationError{Resource: "tools/kubernetes_delete", Operation: "invoke"}

	// The message must not leak which rule matched or why.
	assert.NotContains(t, err.Error(), "rule")
	assert.NotContains(t, err.Error(), "policy")
	assert.Contains(t, err.Error(), "tools/kubernetes_delete")
	assert.True(t, IsAuthorizationError(err))
}

func TestPredicatesRejectOtherTypes(t *testing.T) {
	err := NewValidationError("replicas must be an integer, got %q", "three")

	assert.True(t, IsValidationError(err))
	assert.False(t, IsNotFoundError(err))
	assert.False(t, IsAuthorizationError(err))
	assert.False(t, IsConnectionError(err))
	assert.Equal(t, `replicas must be an integer, got "three"`, err.Error())
}
