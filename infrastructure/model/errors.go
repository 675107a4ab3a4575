package model

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by the model client and providers.
var (
	// ErrEmptyAPIKey indicates an API key was required but not provided.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")

	// ErrEmptyResponse indicates the provider returned no usable content.
	ErrEmptyResponse = errors.New("empty response from provider")
)

// ErrorType classifies provider failures so middleware can decide
// retryability without parsing provider-specific messages.
type ErrorType int

const (
	// ErrorTypeUnknown is an error of an undetermined category.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuthentication covers invalid or rejected credentials.
	ErrorTypeAuthentication
	// ErrorTypeRateLimit means the provider throttled the request.
	ErrorTypeRateLimit
	// ErrorTypeBadRequest covers malformed requests or invalid parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound covers unknown models or endpoints.
	ErrorTypeNotFound
	// ErrorTypeServerError covers provider-side failures.
	ErrorTypeServerError
	// ErrorTypeContentPolicy means a safety filter blocked the request.
	ErrorTypeContentPolicy
	// ErrorTypeNetwork covers client-side connectivity failures and
	// context cancellation.
	ErrorTypeNetwork
)

// ProviderError normalizes provider-specific failures into one structured
// shape with a classified type and the original error preserved.
type ProviderError struct {
	// Type classifies the error into a standard category.
	Type ErrorType
	// Provider names the provider that produced the error.
	Provider string
	// StatusCode holds the HTTP status from the provider, if applicable.
	StatusCode int
	// Message is the user-facing error message.
	Message string
	// WrappedError is the original underlying error.
	WrappedError error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	base := fmt.Sprintf("%s error", e.Provider)
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if ts := e.typeString(); ts != "" {
		base += fmt.Sprintf(" [%s]", ts)
	}
	if e.Message != "" {
		base += ": " + e.Message
	}
	if e.WrappedError != nil {
		base += fmt.Sprintf(": %v", e.WrappedError)
	}
	return base
}

// Unwrap returns the underlying error for errors.Is / errors.As chains.
func (e *ProviderError) Unwrap() error { return e.WrappedError }

// IsRetryable reports whether a request failing with this error is worth
// retrying. Rate limits, server errors, and network failures are
// transient; everything else is not.
func (e *ProviderError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

func (e *ProviderError) typeString() string {
	switch e.Type {
	case ErrorTypeAuthentication:
		return "authentication"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeBadRequest:
		return "bad_request"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeServerError:
		return "server_error"
	case ErrorTypeContentPolicy:
		return "content_policy"
	case ErrorTypeNetwork:
		return "network"
	default:
		return ""
	}
}

// NewProviderError builds a ProviderError from provider-specific details.
func NewProviderError(provider string, errType ErrorType, statusCode int, message string, wrapped error) *ProviderError {
	return &ProviderError{
		Type:         errType,
		Provider:     provider,
		StatusCode:   statusCode,
		Message:      message,
		WrappedError: wrapped,
	}
}

// ErrorClassifier maps raw provider errors to ProviderError instances
// using HTTP status codes and context state.
type ErrorClassifier struct {
	// Provider is the name stamped onto classified errors.
	Provider string
}

// ClassifyHTTPError builds a ProviderError from an HTTP status code.
func (ec *ErrorClassifier) ClassifyHTTPError(statusCode int, message string, err error) *ProviderError {
	var errType ErrorType

	switch {
	case statusCode == 401 || statusCode == 403:
		errType = ErrorTypeAuthentication
		message = fmt.Sprintf("%s authentication failed", ec.Provider)
	case statusCode == 429:
		errType = ErrorTypeRateLimit
		message = fmt.Sprintf("%s rate limit exceeded", ec.Provider)
	case statusCode == 404:
		errType = ErrorTypeNotFound
	case statusCode >= 500:
		errType = ErrorTypeServerError
	case statusCode >= 400:
		errType = ErrorTypeBadRequest
	default:
		errType = ErrorTypeUnknown
	}

	return NewProviderError(ec.Provider, errType, statusCode, message, err)
}

// ClassifyContextError builds a ProviderError from a context cancellation
// or deadline error.
func (ec *ErrorClassifier) ClassifyContextError(err error) *ProviderError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewProviderError(ec.Provider, ErrorTypeNetwork, 0, "context deadline exceeded", err)
	case errors.Is(err, context.Canceled):
		return NewProviderError(ec.Provider, ErrorTypeNetwork, 0, "request canceled", err)
	default:
		return NewProviderError(ec.Provider, ErrorTypeUnknown, 0, "", err)
	}
}
