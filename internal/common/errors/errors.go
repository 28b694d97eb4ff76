// Package errors provides standardized error handling for the member QA service.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Request errors
const (
	ErrCodeInvalidQuestion    ErrorCode = "INVALID_QUESTION"
	ErrCodeInvalidRequestBody ErrorCode = "INVALID_REQUEST_BODY"
)

// Upstream message collection errors
const (
	ErrCodeMessageFetchFailed  ErrorCode = "MESSAGE_FETCH_FAILED"
	ErrCodeMessageFetchTimeout ErrorCode = "MESSAGE_FETCH_TIMEOUT"
	ErrCodeMessageDecodeFailed ErrorCode = "MESSAGE_DECODE_FAILED"
)

// Infrastructure errors
const (
	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata adds a metadata entry and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidQuestionError creates a non-retryable error for a missing or blank question.
func NewInvalidQuestionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQuestion,
		Message:   "Question is required",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestBodyError creates a non-retryable schema validation error.
func NewInvalidRequestBodyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequestBody,
		Message:   "Request body failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageFetchFailedError creates a retryable upstream fetch error.
func NewMessageFetchFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMessageFetchFailed,
		Message:   "Failed to fetch messages",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"url": url},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMessageFetchTimeoutError creates a retryable upstream timeout error.
func NewMessageFetchTimeoutError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMessageFetchTimeout,
		Message:   "Timed out fetching messages",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"url": url},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMessageDecodeFailedError creates a non-retryable error for an unreadable collection.
func NewMessageDecodeFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMessageDecodeFailed,
		Message:   "Failed to decode messages",
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"url": url},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewCacheUnavailableError wraps a cache failure. Callers log it and carry on.
func NewCacheUnavailableError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   fmt.Sprintf("Cache %s failed", op),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Retry and Transport Mapping
// ==========================

// GetRetryCount returns the retry budget for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeMessageFetchFailed:
		return 3
	case ErrCodeMessageFetchTimeout:
		return 1
	default:
		return 0
	}
}

// HTTPStatus maps an error code to the status the service answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidQuestion:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidRequestBody:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// Normalize always returns a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "MESSAGE_"):
		return "UPSTREAM"
	case strings.HasPrefix(codeStr, "CACHE_"):
		return "CACHE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
