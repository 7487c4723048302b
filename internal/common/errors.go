package common

import "errors"

// Error codes classifying pricing failures. Configuration misses (no enabled
// shipping method, unknown coupon code) are swallowed into an empty adjustment set
// rather than raised, so only data and invariant failures normally surface through
// the pipeline.
const (
	CodeConfiguration = "configuration"
	CodeData          = "data"
	CodeInvariant     = "invariant"
)

// Error represents a pricing failure with an attached taxonomy code.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewDataError flags malformed input data (invalid address, malformed rate
// definition). The caller decides whether it blocks checkout.
func NewDataError(message string, err error) *Error {
	return &Error{Code: CodeData, Message: message, Err: err}
}

// NewInvariantError flags a reconciliation failure between adjustments and totals.
// This is a programming defect, not a runtime-recoverable condition.
func NewInvariantError(message string) *Error {
	return &Error{Code: CodeInvariant, Message: message}
}

// HasCode reports whether err carries the given taxonomy code.
func HasCode(err error, code string) bool {
	var target *Error
	if !errors.As(err, &target) {
		return false
	}
	return target.Code == code
}

// IsDataError reports whether err is classified as a data failure.
func IsDataError(err error) bool {
	return HasCode(err, CodeData)
}

// IsInvariantError reports whether err is classified as an invariant violation.
func IsInvariantError(err error) bool {
	return HasCode(err, CodeInvariant)
}
