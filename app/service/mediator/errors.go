package mediator

import "net/http"

// Error codes are stable so callers can branch on Code without
// string-matching Message.
const (
	CodeInvalidRequest      = "invalid_request"
	CodePayloadTooLarge     = "payload_too_large"
	CodeRateLimited         = "rate_limited"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeUpstreamError       = "upstream_error"
	CodeTimeout             = "timeout"
)

// APIError is a caller-visible failure carrying the stable
// (message, code, httpStatus) triple. Internal causes are logged
// server-side and never placed in Message.
type APIError struct {
	Message string
	Code    string
	Status  int
}

func (e *APIError) Error() string {
	return e.Message
}

func invalidField(message string) *APIError {
	return &APIError{
		Message: message,
		Code:    CodeInvalidRequest,
		Status:  http.StatusBadRequest,
	}
}

func rateLimited() *APIError {
	return &APIError{
		Message: "You're asking a little too quickly. Take a moment, then try again.",
		Code:    CodeRateLimited,
		Status:  http.StatusTooManyRequests,
	}
}

func upstreamUnavailable() *APIError {
	return &APIError{
		Message: "The suggestion service is not available right now.",
		Code:    CodeUpstreamUnavailable,
		Status:  http.StatusServiceUnavailable,
	}
}

func upstreamError() *APIError {
	return &APIError{
		Message: "Something went wrong getting a suggestion. Please try again.",
		Code:    CodeUpstreamError,
		Status:  http.StatusBadGateway,
	}
}

func timeout() *APIError {
	return &APIError{
		Message: "The suggestion took too long. Please try again.",
		Code:    CodeTimeout,
		Status:  http.StatusGatewayTimeout,
	}
}
