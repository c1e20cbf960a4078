package filestore

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code is a stable, caller-facing identifier for a class of store error.
type Code string

const (
	// CodeResourceDoesNotExist means the requested experiment or run
	// was not found.
	CodeResourceDoesNotExist Code = "RESOURCE_DOES_NOT_EXIST"
	// CodeInvalidParameterValue means the caller supplied a bad input:
	// an empty name, a duplicate param key, an attempt to change a
	// param value, an out-of-range max_results, a non-numeric metric
	// value, a value that is too long, a run_name/tag mismatch, a
	// rename of a non-active experiment, or a run created under a
	// non-active experiment.
	CodeInvalidParameterValue Code = "INVALID_PARAMETER_VALUE"
	// CodeInternalError wraps an unexpected underlying failure: a
	// filesystem error, a run document whose experiment_id disagrees
	// with its directory, or any other unexpected error inside LogBatch.
	CodeInternalError Code = "INTERNAL_ERROR"
	// CodeMissingConfig means a metadata file is absent for an
	// otherwise-present directory.
	CodeMissingConfig Code = "MISSING_CONFIG"
)

// StoreError is the typed error returned by every Store operation that
// can fail. The Code field is stable across versions; Message is
// human-readable.
type StoreError struct {
	Code    Code
	Message string
	cause   error
}

func (e *StoreError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *StoreError) Unwrap() error { return e.cause }

func newError(code Code, format string, args ...any) *StoreError {
	return &StoreError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, cause error, format string, args ...any) *StoreError {
	return &StoreError{Code: code, Message: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

func errNotFound(format string, args ...any) *StoreError {
	return newError(CodeResourceDoesNotExist, format, args...)
}

func errInvalid(format string, args ...any) *StoreError {
	return newError(CodeInvalidParameterValue, format, args...)
}

func errInternal(cause error, format string, args ...any) *StoreError {
	return wrapError(CodeInternalError, cause, format, args...)
}

func errMissingConfig(cause error, format string, args ...any) *StoreError {
	return wrapError(CodeMissingConfig, cause, format, args...)
}

// IsCode reports whether err is a *StoreError carrying the given code.
func IsCode(err error, code Code) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
