// internal/session/errors.go
package session

import (
	"errors"
	"fmt"
)

// ErrorCode is a protocol-level error code reported by a session command.
// The values match the remote protocol's error vocabulary.
type ErrorCode string

const (
	CodeInvalidArgument    ErrorCode = "invalid argument"
	CodeNoSuchFrame        ErrorCode = "no such frame"
	CodeNoSuchHistoryEntry ErrorCode = "no such history entry"
	CodeUnknownError       ErrorCode = "unknown error"
)

// Error is a command failure carrying a protocol error code.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a session error with the given code and message.
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NoSuchFrame reports that no browsing context with the given id exists.
func NoSuchFrame(contextID string) *Error {
	return NewError(CodeNoSuchFrame, "no browsing context with id %q", contextID)
}

// NoSuchHistoryEntry reports a traversal delta outside the history bounds.
func NoSuchHistoryEntry(delta, index, length int) *Error {
	return NewError(CodeNoSuchHistoryEntry, "delta %d from entry %d is outside history of length %d", delta, index, length)
}

// InvalidArgument reports a malformed command argument.
func InvalidArgument(format string, args ...interface{}) *Error {
	return NewError(CodeInvalidArgument, format, args...)
}

// IsCode reports whether err is a session error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}
