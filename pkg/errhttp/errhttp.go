// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/cch1/uuid-primary-key/pkg/httpx"
	"github.com/cch1/uuid-primary-key/pkg/identity"
	"github.com/cch1/uuid-primary-key/pkg/telemetry"
	recorddomain "github.com/cch1/uuid-primary-key/services/record/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Field errors are written as {"error": "Validation failed", "fields": {...}}.
// Unrecognized errors become a generic 500 and are reported to Sentry.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *identity.FieldError
	if errors.As(err, &fe) {
		httpx.FieldErrors(w, fe.Fields())
		return
	}

	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		telemetry.CaptureError(r.Context(), err)
	}
	httpx.JSONError(w, status, httpx.SafeError(err, status, true))
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, recorddomain.ErrRecordNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, recorddomain.ErrRecordAlreadyExists),
		errors.Is(err, recorddomain.ErrRecordHasChildren),
		errors.Is(err, identity.ErrImmutableIdentifier):
		return http.StatusConflict // 409
	case errors.Is(err, identity.ErrMalformedIdentifier),
		errors.Is(err, identity.ErrInvalidIdentifier),
		errors.Is(err, recorddomain.ErrInvalidRecordName),
		errors.Is(err, recorddomain.ErrInvalidParent),
		errors.Is(err, recorddomain.ErrParentNotFound):
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError // 500
	}
}
