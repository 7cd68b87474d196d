package queryspec

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a validation failure. Codes double as message keys
// for the localized text shown in place of the list.
type ErrorCode string

const (
	// ErrCodeNoIncludeCategories: no include category and no namespace filter.
	ErrCodeNoIncludeCategories ErrorCode = "intersection_noincludecats"

	// ErrCodeTooManyCategories: include+exclude exceeds the configured maximum.
	ErrCodeTooManyCategories ErrorCode = "intersection_toomanycats"
)

// ValidationError reports a directive set that cannot form a query.
//
// It is never fatal to the host: the renderer shows the localized message
// for Code, or nothing at all when SuppressErrors is set.
type ValidationError struct {
	Code ErrorCode

	// SuppressErrors carries the suppresserrors directive, which is folded
	// before validation runs.
	SuppressErrors bool

	// Details contains additional context.
	Details map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %v", e.Code, e.Details)
	}
	return string(e.Code)
}

// AsValidationError returns the ValidationError err is or wraps.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// HasCode reports whether err is a ValidationError with the given code.
func HasCode(err error, code ErrorCode) bool {
	ve, ok := AsValidationError(err)
	return ok && ve.Code == code
}

func newNoIncludeCategoriesError(suppress bool) *ValidationError {
	return &ValidationError{Code: ErrCodeNoIncludeCategories, SuppressErrors: suppress}
}

func newTooManyCategoriesError(suppress bool, total, max int) *ValidationError {
	return &ValidationError{
		Code:           ErrCodeTooManyCategories,
		SuppressErrors: suppress,
		Details: map[string]string{
			"categories": fmt.Sprintf("%d", total),
			"max":        fmt.Sprintf("%d", max),
		},
	}
}
