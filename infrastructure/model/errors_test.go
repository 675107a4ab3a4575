package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderError_Error(t *testing.T) {
	err := NewProviderError("openai", ErrorTypeRateLimit, 429, "slow down", errors.New("cause"))

	msg := err.Error()
	assert.Contains(t, msg, "openai error")
	assert.Contains(t, msg, "HTTP 429")
	assert.Contains(t, msg, "rate_limit")
	assert.Contains(t, msg, "slow down")
	assert.Contains(t, msg, "cause")
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewProviderError("google", ErrorTypeNetwork, 0, "", cause)
	assert.ErrorIs(t, err, cause)
}

func TestProviderError_IsRetryable(t *testing.T) {
	tests := []struct {
		errType   ErrorType
		retryable bool
	}{
		{ErrorTypeRateLimit, true},
		{ErrorTypeServerError, true},
		{ErrorTypeNetwork, true},
		{ErrorTypeAuthentication, false},
		{ErrorTypeBadRequest, false},
		{ErrorTypeNotFound, false},
		{ErrorTypeContentPolicy, false},
		{ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		err := NewProviderError("p", tt.errType, 0, "", nil)
		assert.Equal(t, tt.retryable, err.IsRetryable(), "type %d", tt.errType)
	}
}

func TestErrorClassifier_ClassifyHTTPError(t *testing.T) {
	ec := &ErrorClassifier{Provider: "anthropic"}

	tests := []struct {
		status int
		want   ErrorType
	}{
		{401, ErrorTypeAuthentication},
		{403, ErrorTypeAuthentication},
		{429, ErrorTypeRateLimit},
		{404, ErrorTypeNotFound},
		{400, ErrorTypeBadRequest},
		{422, ErrorTypeBadRequest},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{302, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		got := ec.ClassifyHTTPError(tt.status, "msg", errors.New("raw"))
		assert.Equal(t, tt.want, got.Type, "status %d", tt.status)
		assert.Equal(t, tt.status, got.StatusCode)
		assert.Equal(t, "anthropic", got.Provider)
	}
}

func TestErrorClassifier_ClassifyContextError(t *testing.T) {
	ec := &ErrorClassifier{Provider: "openai"}

	deadline := ec.ClassifyContextError(context.DeadlineExceeded)
	assert.Equal(t, ErrorTypeNetwork, deadline.Type)
	require.ErrorIs(t, deadline, context.DeadlineExceeded)

	cancelled := ec.ClassifyContextError(context.Canceled)
	assert.Equal(t, ErrorTypeNetwork, cancelled.Type)
	require.ErrorIs(t, cancelled, context.Canceled)
}
