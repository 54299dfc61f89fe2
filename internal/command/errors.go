package command

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes command errors.
type ErrorCode string

const (
	// ErrCodeFilterSyntax indicates a malformed free-text filter.
	ErrCodeFilterSyntax ErrorCode = "FILTER_SYNTAX"

	// ErrCodeUnknownIndicator indicates a sort on an indicator that does
	// not exist.
	ErrCodeUnknownIndicator ErrorCode = "UNKNOWN_INDICATOR"

	// ErrCodeInvalidRequest indicates request fields out of range.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// ErrCodeQueryFailed indicates the data store rejected or failed the
	// query.
	ErrCodeQueryFailed ErrorCode = "QUERY_FAILED"
)

// Error is a failure reported to the caller of a command.
type Error struct {
	Code    ErrorCode
	Message string

	// Field names the request field at fault, if any.
	Field string

	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of a command error, or "" for other errors.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsUserError reports whether err was caused by the request rather than by
// the server.
func IsUserError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeFilterSyntax, ErrCodeUnknownIndicator, ErrCodeInvalidRequest:
		return true
	}
	return false
}

// NewFilterSyntaxError wraps a filter parse failure.
func NewFilterSyntaxError(err error) *Error {
	return &Error{
		Code:    ErrCodeFilterSyntax,
		Message: "could not parse filter",
		Field:   "filter",
		Err:     err,
	}
}

// NewUnknownIndicatorError reports a sort on a missing indicator.
func NewUnknownIndicatorError(indicatorID int, err error) *Error {
	return &Error{
		Code:    ErrCodeUnknownIndicator,
		Message: fmt.Sprintf("indicator %d does not exist", indicatorID),
		Field:   "sort_info",
		Err:     err,
	}
}

// NewInvalidRequestError reports an out-of-range request field.
func NewInvalidRequestError(field, message string) *Error {
	return &Error{
		Code:    ErrCodeInvalidRequest,
		Message: message,
		Field:   field,
	}
}

// NewQueryError wraps a data store failure.
func NewQueryError(message string, err error) *Error {
	return &Error{
		Code:    ErrCodeQueryFailed,
		Message: message,
		Err:     err,
	}
}
