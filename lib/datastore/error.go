package datastore

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("DatastoreError (code %s): %s", e.Code, e.Msg)
}

// Is matches any *Error with the same code, so
//
//	errors.Is(err, datastore.ErrUnsupported)
//
// works for every unsupported-operation error regardless of its message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new datastore error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// Errorf creates a new datastore error with a formatted message.
func Errorf(code RetCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// Sentinel errors for errors.Is checks.
var (
	ErrInternal     = NewError(RetCInternalError, "internal error")
	ErrUnsupported  = NewError(RetCUnsupportedOperation, "operation not supported")
	ErrInvalidOp    = NewError(RetCInvalidOperation, "invalid operation")
	ErrTypeMismatch = NewError(RetCTypeMismatch, "type mismatch")
	ErrInvalidInput = NewError(RetCInvalidInput, "invalid input")
)

// IsUnsupported reports whether err signals a missing capability of the backend.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsTypeMismatch reports whether err signals a value or entry of the wrong kind.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// Unsupported returns the error a store reports for an operation it does not implement.
func Unsupported(store, operation string) *Error {
	return Errorf(RetCUnsupportedOperation, "%s does not support %s", store, operation)
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the datastore.
	RetCInvalidOperation                    // 3: Invalid operation.
	RetCTypeMismatch                        // 4: Value or entry has the wrong kind (e.g. a directory where a value was expected).
	RetCInvalidInput                        // 5: Malformed input (e.g. a nil query).
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCTypeMismatch:
		return "TypeMismatch"
	case RetCInvalidInput:
		return "InvalidInput"
	default:
		return "Unknown"
	}
}
