package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the stage of a scrape that failed
type ErrorType string

const (
	ErrorTypeNavigation ErrorType = "navigation"
	ErrorTypeReadiness  ErrorType = "readiness"
	ErrorTypeEvaluation ErrorType = "evaluation"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Severity decides whether a failure stops the run
type Severity int

const (
	SeverityFatal Severity = iota
	SeverityRecoverable
	SeverityIgnored
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityRecoverable:
		return "recoverable"
	case SeverityIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Error carries the failing stage, a message and the underlying cause
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.Code != 0 {
		msg = fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error wrapping cause
func New(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Err: cause}
}

// TypeOf returns the ErrorType of the first *Error in err's chain
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err's chain contains an *Error of type t
func Is(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	return errorType == ErrorTypeNetwork
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}

// Stage identifies which part of a run produced an error
type Stage string

const (
	StageProfile Stage = "profile"
	StagePost    Stage = "post"
	StageDialog  Stage = "dialog"
	StageMedia   Stage = "media"
	StageOutput  Stage = "output"
)

// Classify returns how a run must react to err raised during stage.
// Anything on the profile page or while writing the document aborts the run,
// a single post or media item only loses its own data, and a dialog that
// cannot be dismissed is not an error at all.
func Classify(stage Stage, err error) Severity {
	if err == nil {
		return SeverityIgnored
	}
	if Is(err, ErrorTypeConfig) {
		return SeverityFatal
	}

	switch stage {
	case StageDialog:
		return SeverityIgnored
	case StagePost, StageMedia:
		return SeverityRecoverable
	default:
		return SeverityFatal
	}
}
