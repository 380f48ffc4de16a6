package redaction

import (
	"errors"
	"fmt"
)

// Code is the error taxonomy exposed at the external boundary.
type Code string

const (
	CodePolicyLoad       Code = "POLICY_LOAD_ERROR"
	CodePolicyValidation Code = "POLICY_VALIDATION_ERROR"
	CodeInputTooLarge    Code = "INPUT_TOO_LARGE"
	CodeInputInvalid     Code = "INPUT_INVALID"
	CodeContextInvalid   Code = "CONTEXT_INVALID"
	CodeDetectorError    Code = "DETECTOR_ERROR"
	CodePluginTimeout    Code = "PLUGIN_TIMEOUT"
	CodePluginError      Code = "PLUGIN_ERROR"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Error is a typed error carrying one of the boundary codes. The orchestrator
// converts any unrecovered failure to CodeInternal rather than letting a
// bare error escape: fail closed, never emit the original text.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func wrapError(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

// AsCode returns the Code of err if it is (or wraps) an *Error, and ok=false
// otherwise.
func AsCode(err error) (Code, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}

// internalError is the catastrophic-failure wrapper: any unrecovered panic
// or aggregate failure from the orchestrator becomes this, never the
// original text.
func internalError(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: "Redaction failed. Request blocked for security",
		Cause:   cause,
	}
}
