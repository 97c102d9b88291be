package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHost(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty host",
			input: "",
			want:  "<empty>",
		},
		{
			name:  "bare IPv4",
			input: "192.168.1.100",
			want:  "<redacted-ip>",
		},
		{
			name:  "URL with IPv4 and port",
			input: "https://192.168.1.100:6443",
			want:  "https://<redacted-ip>:6443",
		},
		{
			name:  "URL with hostname is unchanged",
			input: "https://api.cluster.example.com:6443",
			want:  "https://api.cluster.example.com:6443",
		},
		{
			name:  "bare IPv6",
			input: "2001:db8::1",
			want:  "<redacted-ip>",
		},
		{
			name:  "URL with bracketed IPv6",
			input: "https://[2001:db8::1]:6443",
			want:  "https://<redacted-ip>:6443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeHost(tt.input))
		})
	}
}

func TestSanitizedErr(t *testing.T) {
	err := errors.New("Get \"https://10.0.0.5:6443/api\": dial tcp 10.0.0.5:6443: connect: connection refused")
	attr := SanitizedErr(err)

	assert.Equal(t, KeyError, attr.Key)
	assert.NotContains(t, attr.Value.String(), "10.0.0.5")
	assert.Contains(t, attr.Value.String(), "<redacted-ip>")
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "<empty>", SanitizeToken(""))

	masked := SanitizeToken("eyJhbGciOiJSUzI1NiJ9.secret")
	assert.NotContains(t, masked, "eyJ")
	assert.Equal(t, "[token:27 chars]", masked)
}

func TestNewRespectsLevel(t *testing.T) {
	logger := New("debug")
	assert.NotNil(t, logger)

	// Unknown levels fall back to info rather than failing.
	logger = New("nonsense")
	assert.NotNil(t, logger)
}
