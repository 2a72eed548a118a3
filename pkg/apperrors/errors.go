package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error well enough for a handler to pick a response code
// without inspecting the message.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidArgument
	KindInvalidState
	KindInvalidPayment
	KindLimitExceeded
	KindInconsistentState
	KindUnavailable
)

// String returns the kind name used in logs and API responses.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindInvalidPayment:
		return "INVALID_PAYMENT"
	case KindLimitExceeded:
		return "LIMIT_EXCEEDED"
	case KindInconsistentState:
		return "INCONSISTENT_STATE"
	case KindUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// KindFromString parses the wire form produced by Kind.String.
func KindFromString(s string) Kind {
	switch s {
	case "NOT_FOUND":
		return KindNotFound
	case "INVALID_ARGUMENT":
		return KindInvalidArgument
	case "INVALID_STATE":
		return KindInvalidState
	case "INVALID_PAYMENT":
		return KindInvalidPayment
	case "LIMIT_EXCEEDED":
		return KindLimitExceeded
	case "INCONSISTENT_STATE":
		return KindInconsistentState
	case "UNAVAILABLE":
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// Error carries a kind alongside a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kinded error with a plain message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a kinded error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the caller may safely repeat the operation.
func Retryable(err error) bool {
	return KindOf(err) == KindUnavailable
}

// HTTPStatus maps an error to the response code its kind implies.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindInvalidPayment:
		return http.StatusUnprocessableEntity
	case KindInvalidState, KindLimitExceeded:
		return http.StatusConflict
	case KindInconsistentState:
		return http.StatusInternalServerError
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
