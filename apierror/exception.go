// Package apierror defines the error carrier surfaced to the transport layer
// when a request cannot be processed, and its client-facing body.
package apierror

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/Gobd/restvalidation/violation"
)

// Error codes reported in [Body.Error].
const (
	CodeInvalidParameters   = "invalid_parameters"
	CodeInvalidRequest      = "invalid_request"
	CodeInternalServerError = "internal_server_error"
)

var (
	// ErrValidationFailed matches, via errors.Is, every exception built from violations.
	ErrValidationFailed = errors.New("request validation failed")

	// ErrInvalidRequest matches exceptions for requests that could not be decoded or mapped.
	ErrInvalidRequest = errors.New("invalid request")
)

// Exception carries a failed request to the transport boundary. Validation
// failures expose the violations both as an ordered list and grouped by field.
// An Exception is never modified after construction.
type Exception struct {
	code       string
	message    string
	status     int
	kind       error
	cause      error
	properties *violation.Properties
	violations []violation.Violation
}

// NewValidationFailed builds the exception for a failed validation from the
// translated violations and their grouping.
func NewValidationFailed(vs []violation.Violation, props *violation.Properties) *Exception {
	return &Exception{
		code:       CodeInvalidParameters,
		message:    "Request validation failed",
		status:     http.StatusBadRequest,
		kind:       ErrValidationFailed,
		properties: props,
		violations: slices.Clone(vs),
	}
}

// FromViolations groups vs and builds the validation exception.
// It returns nil when vs is empty, since a request without violations has not failed.
func FromViolations(vs []violation.Violation) *Exception {
	if len(vs) == 0 {
		return nil
	}
	return NewValidationFailed(vs, violation.Group(vs))
}

// InvalidRequest builds the exception for a request whose data could not be
// decoded or mapped to an entity.
func InvalidRequest(message string, cause error) *Exception {
	return &Exception{
		code:    CodeInvalidRequest,
		message: message,
		status:  http.StatusBadRequest,
		kind:    ErrInvalidRequest,
		cause:   cause,
	}
}

// Code returns the machine-readable error code.
func (e *Exception) Code() string { return e.code }

// Message returns the human-readable description.
func (e *Exception) Message() string { return e.message }

// StatusCode returns the HTTP status the transport should respond with.
func (e *Exception) StatusCode() int { return e.status }

// Properties returns the violation messages grouped by field, or nil when
// the exception does not describe a validation failure.
func (e *Exception) Properties() *violation.Properties { return e.properties }

// Violations returns a copy of the violations in the order they were reported.
func (e *Exception) Violations() []violation.Violation { return slices.Clone(e.violations) }

func (e *Exception) Error() string {
	var b strings.Builder
	b.WriteString(e.code)
	b.WriteString(": ")
	b.WriteString(e.message)
	for i, v := range e.violations {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(v.String())
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Is reports whether target is the sentinel for this exception's kind.
func (e *Exception) Is(target error) bool {
	return e.kind != nil && target == e.kind
}

func (e *Exception) Unwrap() error { return e.cause }

// As returns the first *Exception in err's chain.
func As(err error) (*Exception, bool) {
	var e *Exception
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
