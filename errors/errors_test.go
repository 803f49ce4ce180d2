package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindCodes(t *testing.T) {
	tests := []struct {
		kind      Kind
		code      string
		retryable bool
	}{
		{Invalid, "VALIDATION", false},
		{MissingReference, "MISSING_REFERENCE", false},
		{Network, "NETWORK_ERROR", true},
		{Timeout, "TIMEOUT", true},
		{Server, "SERVER_ERROR", true},
		{Authorization, "AUTHORIZATION_ERROR", false},
		{VerificationFailed, "VERIFICATION_FAILED", true},
		{PermitGenerationFailed, "PERMIT_GENERATION_FAILED", false},
		{RenderFailed, "RENDER_FAILED", true},
		{NotFound, "NOT_FOUND", false},
		{Internal, "INTERNAL", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.kind.Code())
			assert.Equal(t, tt.retryable, tt.kind.Retryable())
		})
	}
}

func TestKindOf(t *testing.T) {
	err := E(Network, "gateway unreachable")
	assert.Equal(t, Network, KindOf(err))
	assert.True(t, IsRetryable(err))

	assert.Equal(t, Other, KindOf(NewError("plain")))
	assert.False(t, IsRetryable(NewError("plain")))
}

func TestMessageOf(t *testing.T) {
	err := E(Timeout, "verification timed out", NewError("deadline exceeded"))
	assert.Equal(t, "verification timed out", MessageOf(err))

	plain := NewError("boom")
	assert.Equal(t, "boom", MessageOf(plain))
}

func TestUnwrap(t *testing.T) {
	inner := NewError("socket closed")
	err := E(Network, "verify call failed", inner)
	assert.True(t, Is(err, inner))
}
