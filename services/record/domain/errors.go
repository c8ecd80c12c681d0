package domain

import "errors"

// Sentinel errors for the record domain. Use errors.Is() to check these.
// Identifier errors live in pkg/identity.
var (
	// ErrRecordNotFound indicates the requested record does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordAlreadyExists indicates a record with the same identifier already exists.
	ErrRecordAlreadyExists = errors.New("record already exists")

	// ErrInvalidRecordName indicates the record name violates domain constraints.
	ErrInvalidRecordName = errors.New("invalid record name")

	// ErrParentNotFound indicates the referenced parent record does not exist.
	ErrParentNotFound = errors.New("parent record not found")

	// ErrInvalidParent indicates a parent reference that can never be satisfied,
	// such as a record naming itself.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrRecordHasChildren indicates a delete blocked by records referencing it.
	ErrRecordHasChildren = errors.New("record has children")
)
