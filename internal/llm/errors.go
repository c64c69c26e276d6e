package llm

import (
	"fmt"
	"net/http"
)

// GatewayError represents an error from the gateway client.
type GatewayError struct {
	// Type categorizes the error
	Type string

	// Message is a human-readable error message
	Message string

	// Code is the upstream HTTP status code (if applicable)
	Code int

	// Err is the underlying error
	Err error
}

// Error types.
const (
	ErrorTypeNetwork    = "network"
	ErrorTypeAPI        = "api"
	ErrorTypeRateLimit  = "rate_limit"
	ErrorTypeQuota      = "quota"
	ErrorTypeValidation = "validation"
	ErrorTypeParse      = "parse"
)

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("gateway %s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("gateway %s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the structured-generation loop may retry
// with feedback. Network and upstream API failures are surfaced as-is;
// only parse and validation failures earn another attempt.
func (e *GatewayError) Retryable() bool {
	return e.Type == ErrorTypeParse || e.Type == ErrorTypeValidation
}

// NewNetworkError creates a network error.
func NewNetworkError(err error) *GatewayError {
	return &GatewayError{
		Type:    ErrorTypeNetwork,
		Message: "Failed to connect to the AI gateway. Check your network connection.",
		Err:     err,
	}
}

// NewAPIError creates an API error with status code. Rate-limit and
// quota responses get their own types so callers can pass the upstream
// status through verbatim.
func NewAPIError(code int, message string) *GatewayError {
	switch code {
	case http.StatusTooManyRequests:
		return &GatewayError{
			Type:    ErrorTypeRateLimit,
			Code:    code,
			Message: fmt.Sprintf("AI gateway rate limit exceeded: %s", message),
		}
	case http.StatusPaymentRequired:
		return &GatewayError{
			Type:    ErrorTypeQuota,
			Code:    code,
			Message: fmt.Sprintf("AI gateway quota exhausted: %s", message),
		}
	default:
		return &GatewayError{
			Type:    ErrorTypeAPI,
			Code:    code,
			Message: fmt.Sprintf("AI gateway error: %s", message),
		}
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, err error) *GatewayError {
	return &GatewayError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf("Validation failed: %s", message),
		Err:     err,
	}
}

// NewParseError creates a parse error.
func NewParseError(content string, err error) *GatewayError {
	return &GatewayError{
		Type:    ErrorTypeParse,
		Message: fmt.Sprintf("Failed to parse gateway output: %s", content),
		Err:     err,
	}
}
