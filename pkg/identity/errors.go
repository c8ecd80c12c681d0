package identity

import "errors"

// Sentinel errors for identifier handling. Use errors.Is() to check these.
var (
	// ErrImmutableIdentifier indicates an attempt to change an identifier
	// that has already been assigned.
	ErrImmutableIdentifier = errors.New("identifier is immutable")

	// ErrMalformedIdentifier indicates an identifier that is not canonical
	// UUID text.
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// ErrInvalidIdentifier indicates an identifier that parses but fails the
	// structural (variant/version) check.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// Field-level messages reported for identifier validation failures.
const (
	MessageMalformed = "can't be parsed"
	MessageInvalid   = "is invalid"
)

// FieldError is a validation failure keyed to a single record field.
// It wraps ErrMalformedIdentifier or ErrInvalidIdentifier.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Fields returns the error as a field name → message map, the shape used for
// validation responses.
func (e *FieldError) Fields() map[string]string {
	return map[string]string{e.Field: e.Message}
}
