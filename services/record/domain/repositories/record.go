package repositories

import (
	"context"

	"github.com/cch1/uuid-primary-key/services/record/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// RecordRepository is the persistence interface for the Record aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Identifiers passed in are canonical UUID text; identifiers returned are
// lower-case canonical text.
type RecordRepository interface {
	// Save inserts a new Record whose identifier is already assigned.
	// Returns ErrRecordAlreadyExists when the identifier is taken and
	// ErrParentNotFound when ParentID names no record.
	Save(ctx context.Context, rec *models.Record) error

	GetByID(ctx context.Context, id string) (*models.Record, error)

	// List returns records ordered by creation time, plus the total count
	// ignoring pagination.
	List(ctx context.Context, opts QueryOpts) ([]*models.Record, int, error)

	// Update persists a name change. The identifier is never written.
	Update(ctx context.Context, rec *models.Record) error

	// Delete removes a record. Returns ErrRecordHasChildren when other
	// records reference it.
	Delete(ctx context.Context, id string) error

	Exists(ctx context.Context, id string) (bool, error)
}
