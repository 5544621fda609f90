// Package apperr defines the error taxonomy shared by the store, the tool
// registry, the orchestrator and the chat boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of a fixed set of categories.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindOwnership
	KindValidation
	KindUpstream
	KindToolExecution
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindOwnership:
		return "ownership"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream_failure"
	case KindToolExecution:
		return "tool_execution"
	default:
		return "internal"
	}
}

// Sentinels for errors.Is matching. Matching is by kind only.
var (
	ErrInternal      = &Error{Kind: KindInternal}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrOwnership     = &Error{Kind: KindOwnership}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrUpstream      = &Error{Kind: KindUpstream}
	ErrToolExecution = &Error{Kind: KindToolExecution}
)

// Error is a classified error.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(op, message string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

func Ownership(op, message string) error {
	return &Error{Kind: KindOwnership, Op: op, Message: message}
}

func Validation(op, message string) error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// Validationf formats a validation message.
func Validationf(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func Upstream(op string, err error) error {
	return &Error{Kind: KindUpstream, Op: op, Message: "language model call failed", Err: err}
}

func ToolExecution(op string, err error) error {
	return &Error{Kind: KindToolExecution, Op: op, Err: err}
}

func Internal(op string, err error) error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf returns the kind of the outermost classified error in err's chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound is true for NotFound and Ownership errors alike.
func IsNotFound(err error) bool {
	k := KindOf(err)
	return k == KindNotFound || k == KindOwnership
}

// Retryable reports whether the caller may resubmit the request.
func Retryable(err error) bool {
	return err != nil && KindOf(err) == KindUpstream
}

// PublicError is the caller-facing form of an error.
type PublicError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Status    int    `json:"-"`
}

// Public maps err onto a stable caller-facing code and message. Ownership is
// reported exactly like NotFound; internal and upstream details are hidden.
func Public(err error) PublicError {
	var e *Error
	if !errors.As(err, &e) {
		return PublicError{Code: KindInternal.String(), Message: "internal error", Status: http.StatusInternalServerError}
	}
	switch e.Kind {
	case KindNotFound, KindOwnership:
		msg := e.Message
		if msg == "" {
			msg = "not found"
		}
		return PublicError{Code: KindNotFound.String(), Message: msg, Status: http.StatusNotFound}
	case KindValidation:
		return PublicError{Code: KindValidation.String(), Message: e.Message, Status: http.StatusBadRequest}
	case KindUpstream:
		return PublicError{
			Code:      KindUpstream.String(),
			Message:   "the assistant is temporarily unavailable, please retry",
			Retryable: true,
			Status:    http.StatusBadGateway,
		}
	case KindToolExecution:
		return PublicError{Code: KindToolExecution.String(), Message: "tool execution failed", Status: http.StatusInternalServerError}
	default:
		return PublicError{Code: KindInternal.String(), Message: "internal error", Status: http.StatusInternalServerError}
	}
}
