// Package identity manages UUID primary identifiers for persisted records.
//
// A record embeds Identity to carry its identifier. The identifier starts out
// null, is assigned exactly once (either by the caller or by an Assigner just
// before the record is first created) and is read-only afterwards:
//
//	type Widget struct {
//	    identity.Identity
//	    Name string
//	}
//
//	w := &Widget{Name: "sprocket"}
//	if err := assigner.Validate(ctx, w); err != nil { ... }
//	if err := assigner.AssignIfAbsent(ctx, w); err != nil { ... }
//
// Uniqueness is not checked here. Storage owns it through a unique index on
// the identifier column; null identifiers never reach that index because
// AssignIfAbsent fills them first.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// CanonicalLength is the length of canonical UUID text (8-4-4-4-12).
const CanonicalLength = 36

// Identifiable is implemented by records that carry an Identity.
// Embedding Identity satisfies it.
type Identifiable interface {
	PrimaryKey() *Identity
}

// Identity holds a record's primary identifier. The zero value is null.
//
// Identity is not safe for concurrent mutation; a record being created is
// owned by a single goroutine.
type Identity struct {
	value string
	set   bool

	parsed   uuid.UUID
	parseErr error
	cached   bool
}

// Restore returns an Identity holding an identifier loaded from storage.
func Restore(value string) Identity {
	return Identity{value: value, set: true}
}

// PrimaryKey returns i, so that embedding Identity implements Identifiable.
func (i *Identity) PrimaryKey() *Identity {
	return i
}

// Identifier returns the identifier and whether it is non-null.
func (i *Identity) Identifier() (string, bool) {
	return i.value, i.set
}

// ID returns the identifier, or "" when it is null.
func (i *Identity) ID() string {
	return i.value
}

// IsNull reports whether no identifier has been assigned.
func (i *Identity) IsNull() bool {
	return !i.set
}

// SetIdentifier sets the identifier. It fails with ErrImmutableIdentifier
// once the identifier is non-null. The value's format is not checked here.
func (i *Identity) SetIdentifier(value string) error {
	if i.set {
		return fmt.Errorf("set identifier %q: %w", value, ErrImmutableIdentifier)
	}
	i.value = value
	i.set = true
	i.cached = false
	return nil
}

// UUID returns the parsed identifier. ok is false when the identifier is null.
// The parse result is cached for the lifetime of the Identity.
func (i *Identity) UUID() (id uuid.UUID, ok bool, err error) {
	if !i.set {
		return uuid.Nil, false, nil
	}
	if !i.cached {
		i.parsed, i.parseErr = ParseCanonical(i.value)
		i.cached = true
	}
	if i.parseErr != nil {
		return uuid.Nil, true, i.parseErr
	}
	return i.parsed, true, nil
}

// String implements fmt.Stringer.
func (i *Identity) String() string {
	if !i.set {
		return "<null>"
	}
	return i.value
}

// ParseCanonical parses s as canonical UUID text: exactly 36 characters,
// hex digits grouped 8-4-4-4-12 and separated by hyphens. Upper-case hex is
// accepted. Braced, URN and hyphen-less forms are rejected.
func ParseCanonical(s string) (uuid.UUID, error) {
	if len(s) != CanonicalLength {
		return uuid.Nil, fmt.Errorf("%w: length %d, want %d", ErrMalformedIdentifier, len(s), CanonicalLength)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrMalformedIdentifier, err)
	}
	return id, nil
}

// Canonical parses s and returns its lower-case canonical text.
func Canonical(s string) (string, error) {
	id, err := ParseCanonical(s)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
