package apierror

import (
	"net/http"

	"github.com/Gobd/restvalidation/violation"
)

// Body is the client-facing error payload:
//
//	{
//	  "error": "invalid_parameters",
//	  "error_description": "Request validation failed",
//	  "error_properties": {"first_name": ["cannot be blank"]},
//	  "errors": [{"field": "first_name", "message": "cannot be blank"}]
//	}
type Body struct {
	Error       string                `json:"error"`
	Description string                `json:"error_description,omitempty"`
	Properties  *violation.Properties `json:"error_properties,omitempty"`
	Violations  []violation.Violation `json:"errors,omitempty"`
}

// Normalize renders err as a [Body]. Errors that are not an *Exception are
// reported as internal_server_error without leaking their text.
func Normalize(err error) Body {
	e, ok := As(err)
	if !ok {
		return Body{
			Error:       CodeInternalServerError,
			Description: "An unexpected error occurred",
		}
	}

	body := Body{
		Error:       e.code,
		Description: e.message,
		Violations:  e.Violations(),
	}
	if e.properties.Len() > 0 {
		body.Properties = e.properties
	}
	return body
}

// StatusCode returns the HTTP status for err, defaulting to 500.
func StatusCode(err error) int {
	if e, ok := As(err); ok && e.status != 0 {
		return e.status
	}
	return http.StatusInternalServerError
}
