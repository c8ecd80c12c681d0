// Package validator decodes and validates JSON request bodies with
// go-playground/validator, reporting failures per JSON field name.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/cch1/uuid-primary-key/pkg/httpx"
	"github.com/cch1/uuid-primary-key/pkg/identity"
)

// TagUUIDCanonical accepts only canonical 36-character UUID text, the form
// record identifiers are stored and exchanged in.
const TagUUIDCanonical = "uuid_canonical"

// messages holds the fixed text per tag; tags with a parameter are
// formatted in message.
var messages = map[string]string{
	"required":       "This field is required",
	"uuid":           "Must be a valid UUID",
	TagUUIDCanonical: identity.MessageMalformed,
	"oneof":          "Must be one of: %s",
	"min":            "Minimum length is %s",
	"max":            "Maximum length is %s",
	"gte":            "Must be greater than or equal to %s",
	"lte":            "Must be less than or equal to %s",
}

var engine = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation(TagUUIDCanonical, func(fl validator.FieldLevel) bool {
		_, err := identity.ParseCanonical(fl.Field().String())
		return err == nil
	})
	return v
})

// jsonName reports fields by their JSON key, falling back to the Go name.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// Validate checks s against its `validate` tags.
func Validate(s any) error {
	return engine().Struct(s)
}

// FormatValidationErrors maps each failing field of a validator error to a
// readable message. Other errors yield an empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	m, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("Validation failed on '%s'", fe.Tag())
	}
	if strings.Contains(m, "%s") {
		return fmt.Sprintf(m, fe.Param())
	}
	return m
}

// ValidateRequest decodes the JSON body into a T and validates it. On
// failure it has already written the response (413 over the body limit,
// 400 for bad JSON, 422 with field errors) and returns ok=false.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (req *T, ok bool) {
	req = new(T)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if tooLarge := new(http.MaxBytesError); errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		} else {
			httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		}
		return nil, false
	}
	if err := Validate(req); err != nil {
		httpx.FieldErrors(w, FormatValidationErrors(err))
		return nil, false
	}
	return req, true
}
