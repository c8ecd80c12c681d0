package httpx

import (
	"encoding/json"
	"net/http"
)

// MessageValidationFailed is the error text of every 422 field-error body.
const MessageValidationFailed = "Validation failed"

// ErrorBody is the {"error": ...} body of non-validation error responses.
type ErrorBody struct {
	Error string `json:"error"`
}

// FieldErrorsBody is the 422 body listing one message per offending field.
type FieldErrorsBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// JSON writes v as JSON with the given status. Encoding errors are dropped
// once the header is out.
func JSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes an ErrorBody.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// FieldErrors writes a 422 FieldErrorsBody.
func FieldErrors(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, FieldErrorsBody{Error: MessageValidationFailed, Fields: fields})
}

// SafeError is the client-facing text for err. When hide5xx is set, server
// errors are reduced to their status text.
func SafeError(err error, status int, hide5xx bool) string {
	if hide5xx && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
