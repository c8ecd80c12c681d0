package models

import (
	"time"

	"github.com/cch1/uuid-primary-key/pkg/identity"
)

// Record is the core aggregate for this bounded context. Its primary
// identifier is managed by identity.Manager: null until assigned just before
// the first save, immutable afterwards.
type Record struct {
	identity.Identity
	Name RecordName
	// ParentID is the canonical identifier of the parent record, nil for roots.
	ParentID  *string
	CreatedAt time.Time
}

// NewRecord constructs a Record with a null identifier and the current timestamp.
func NewRecord(name RecordName) *Record {
	return &Record{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// RestoreRecord rebuilds a persisted Record.
func RestoreRecord(id string, name RecordName, parentID *string, createdAt time.Time) *Record {
	return &Record{
		Identity:  identity.Restore(id),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: createdAt,
	}
}

// Rename replaces the record's name.
func (r *Record) Rename(name RecordName) {
	r.Name = name
}

// Parent returns the parent identifier, or "" for a root record.
func (r *Record) Parent() string {
	if r.ParentID == nil {
		return ""
	}
	return *r.ParentID
}
