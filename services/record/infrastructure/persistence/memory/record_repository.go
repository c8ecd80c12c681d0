// Package memory is an in-process RecordRepository. It enforces the same
// identifier uniqueness and parent integrity as the PostgreSQL schema and is
// used by tests and fixture dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cch1/uuid-primary-key/pkg/identity"
	recorddomain "github.com/cch1/uuid-primary-key/services/record/domain"
	"github.com/cch1/uuid-primary-key/services/record/domain/models"
	"github.com/cch1/uuid-primary-key/services/record/domain/repositories"
)

type row struct {
	id        string
	name      string
	parentID  string
	createdAt time.Time
}

// RecordRepository implements repositories.RecordRepository in memory.
// It is safe for concurrent use.
type RecordRepository struct {
	mu   sync.RWMutex
	rows map[string]row
}

var _ repositories.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository returns an empty repository.
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{rows: map[string]row{}}
}

// Save inserts rec. Identifiers are compared in canonical form, as a UUID
// column would.
func (r *RecordRepository) Save(_ context.Context, rec *models.Record) error {
	id, err := key(rec.ID())
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.rows[id]; taken {
		return recorddomain.ErrRecordAlreadyExists
	}
	var parent string
	if rec.ParentID != nil {
		parent, err = key(*rec.ParentID)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		if _, ok := r.rows[parent]; !ok {
			return recorddomain.ErrParentNotFound
		}
	}

	r.rows[id] = row{id: id, name: rec.Name.String(), parentID: parent, createdAt: rec.CreatedAt}
	return nil
}

// GetByID returns the record with the given identifier.
func (r *RecordRepository) GetByID(_ context.Context, id string) (*models.Record, error) {
	k, err := key(id)
	if err != nil {
		return nil, recorddomain.ErrRecordNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rw, ok := r.rows[k]
	if !ok {
		return nil, recorddomain.ErrRecordNotFound
	}
	return rw.record(), nil
}

// List returns records ordered by creation time, then identifier.
func (r *RecordRepository) List(_ context.Context, opts repositories.QueryOpts) ([]*models.Record, int, error) {
	r.mu.RLock()
	rows := make([]row, 0, len(r.rows))
	for _, rw := range r.rows {
		rows = append(rows, rw)
	}
	r.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.Before(rows[j].createdAt)
		}
		return rows[i].id < rows[j].id
	})

	total := len(rows)
	start := min(opts.Offset, total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}

	out := make([]*models.Record, 0, end-start)
	for _, rw := range rows[start:end] {
		out = append(out, rw.record())
	}
	return out, total, nil
}

// Update persists a name change.
func (r *RecordRepository) Update(_ context.Context, rec *models.Record) error {
	k, err := key(rec.ID())
	if err != nil {
		return recorddomain.ErrRecordNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rw, ok := r.rows[k]
	if !ok {
		return recorddomain.ErrRecordNotFound
	}
	rw.name = rec.Name.String()
	r.rows[k] = rw
	return nil
}

// Delete removes a record that no other record references.
func (r *RecordRepository) Delete(_ context.Context, id string) error {
	k, err := key(id)
	if err != nil {
		return recorddomain.ErrRecordNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[k]; !ok {
		return recorddomain.ErrRecordNotFound
	}
	for _, rw := range r.rows {
		if rw.parentID == k {
			return recorddomain.ErrRecordHasChildren
		}
	}
	delete(r.rows, k)
	return nil
}

// Exists reports whether a record with the given identifier exists.
func (r *RecordRepository) Exists(_ context.Context, id string) (bool, error) {
	k, err := key(id)
	if err != nil {
		return false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rows[k]
	return ok, nil
}

func (rw row) record() *models.Record {
	var parent *string
	if rw.parentID != "" {
		p := rw.parentID
		parent = &p
	}
	return models.RestoreRecord(rw.id, models.RecordName(rw.name), parent, rw.createdAt)
}

// key mirrors the UUID column type: malformed text is rejected and
// upper-case hex is folded.
func key(id string) (string, error) {
	return identity.Canonical(id)
}
