package engine

import (
	"errors"
	"fmt"
)

// RenderError is a failure that aborts a render instead of producing
// markup.
//
// Render errors include:
//   - Compile failure: the spec could not be expressed as a valid query
//   - Query failure: the store rejected or failed the query
//   - Scan failure: a result row could not be read
//
// User input problems are never RenderErrors; they render as messages.
type RenderError struct {
	// Code identifies the error category.
	Code RenderErrorCode

	// Message is a human-readable description.
	Message string

	// RenderID identifies the affected render.
	RenderID string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause.
	Err error
}

// RenderErrorCode categorizes render errors.
type RenderErrorCode string

const (
	// ErrCodeCompileFailed indicates the compiler rejected a built spec.
	ErrCodeCompileFailed RenderErrorCode = "COMPILE_FAILED"

	// ErrCodeQueryFailed indicates the store failed to run the query.
	ErrCodeQueryFailed RenderErrorCode = "QUERY_FAILED"

	// ErrCodeScanFailed indicates a result row could not be decoded.
	ErrCodeScanFailed RenderErrorCode = "SCAN_FAILED"
)

// Error implements the error interface.
func (e *RenderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RenderID != "" {
		msg += fmt.Sprintf(" (render=%s)", e.RenderID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsStorageError returns true if the error came from the store.
// Uses errors.As to handle wrapped errors.
func IsStorageError(err error) bool {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Code == ErrCodeQueryFailed || re.Code == ErrCodeScanFailed
	}
	return false
}

// IsInternalError returns true if the error is a compiler defect.
// Uses errors.As to handle wrapped errors.
func IsInternalError(err error) bool {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Code == ErrCodeCompileFailed
	}
	return false
}

// NewCompileError creates a RenderError for a compile failure.
func NewCompileError(renderID string, err error) *RenderError {
	return &RenderError{
		Code:     ErrCodeCompileFailed,
		Message:  "list query could not be compiled",
		RenderID: renderID,
		Err:      err,
	}
}

// NewQueryError creates a RenderError for a failed query.
func NewQueryError(renderID, sql string, err error) *RenderError {
	return &RenderError{
		Code:     ErrCodeQueryFailed,
		Message:  "list query failed",
		RenderID: renderID,
		Details:  map[string]string{"sql": sql},
		Err:      err,
	}
}
