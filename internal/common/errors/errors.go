// Package errors provides standardized error handling for the result
// resolution service.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMissingIdentifier   ErrorCode = "MISSING_IDENTIFIER"
	ErrCodeResultNotFound      ErrorCode = "RESULT_NOT_FOUND"
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeMalformedPayload    ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodeCacheWriteFailed    ErrorCode = "CACHE_WRITE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMissingIdentifierError creates a non-retryable request validation error.
func NewMissingIdentifierError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingIdentifier,
		Message:   "submission_id is required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResultNotFoundError is returned when an identifier is absent from both
// the cache and the upstream record store after the full fallback chain.
func NewResultNotFoundError(submissionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResultNotFound,
		Message:   "No results found for submission",
		Details:   fmt.Sprintf("submissionId: %s", submissionID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamUnavailableError creates a retryable record store error.
func NewUpstreamUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamUnavailable,
		Message:   "Upstream record store request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedPayloadError creates a non-retryable webhook parse error.
func NewMalformedPayloadError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedPayload,
		Message:   "Webhook payload is missing the expected structure",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheWriteFailedError creates a retryable cache backend error.
func NewCacheWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheWriteFailed,
		Message:   "Result cache write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// Code extracts the ErrorCode from err, or empty when err is not a StandardError.
func Code(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	return Code(err) == code
}

// HTTPStatus maps an error code to the status the API surfaces it with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMissingIdentifier:
		return http.StatusBadRequest
	case ErrCodeResultNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
