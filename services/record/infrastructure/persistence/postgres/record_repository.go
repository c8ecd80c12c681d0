package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cch1/uuid-primary-key/pkg/database"
	"github.com/cch1/uuid-primary-key/pkg/events"
	"github.com/cch1/uuid-primary-key/pkg/identity"
	recorddomain "github.com/cch1/uuid-primary-key/services/record/domain"
	domainevents "github.com/cch1/uuid-primary-key/services/record/domain/events"
	"github.com/cch1/uuid-primary-key/services/record/domain/models"
	"github.com/cch1/uuid-primary-key/services/record/domain/repositories"
)

// RecordRepository implements repositories.RecordRepository against PostgreSQL.
type RecordRepository struct {
	db  *database.Database
	bus events.TxPublisher
}

var _ repositories.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository returns a RecordRepository backed by the given pool.
// When bus is non-nil a RecordCreatedEvent is written to the outbox in the
// same transaction as every insert.
func NewRecordRepository(db *database.Database, bus events.TxPublisher) *RecordRepository {
	return &RecordRepository{db: db, bus: bus}
}

// Save inserts rec and publishes a RecordCreatedEvent within the same transaction.
func (r *RecordRepository) Save(ctx context.Context, rec *models.Record) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertRecord,
			rec.ID(), rec.Name.String(), nullable(rec.ParentID), rec.CreatedAt,
		); err != nil {
			switch database.ErrorCode(err) {
			case database.CodeUniqueViolation:
				return recorddomain.ErrRecordAlreadyExists
			case database.CodeForeignKeyViolation:
				return recorddomain.ErrParentNotFound
			}
			return fmt.Errorf("insert record: %w", err)
		}

		if r.bus != nil {
			if err := r.publishCreated(ctx, tx, rec); err != nil {
				return fmt.Errorf("publish record created: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a Record by identifier. Returns ErrRecordNotFound if
// none exists or id is not a UUID.
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	if _, err := identity.Canonical(id); err != nil {
		return nil, recorddomain.ErrRecordNotFound
	}
	rec, err := scanRecord(r.db.DB().QueryRowContext(ctx, selectRecordByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recorddomain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("query record: %w", err)
	}
	return rec, nil
}

// List retrieves a page of records ordered by creation time and the total count.
func (r *RecordRepository) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Record, int, error) {
	var limit any
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	rows, err := r.db.DB().QueryContext(ctx, selectRecords, limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var recs []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate records: %w", err)
	}

	var total int
	if err := r.db.DB().QueryRowContext(ctx, countRecords).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}
	return recs, total, nil
}

// Update persists a name change to an existing Record.
func (r *RecordRepository) Update(ctx context.Context, rec *models.Record) error {
	if _, err := identity.Canonical(rec.ID()); err != nil {
		return recorddomain.ErrRecordNotFound
	}
	res, err := r.db.DB().ExecContext(ctx, updateRecord, rec.ID(), rec.Name.String())
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return expectOne(res)
}

// Delete removes a record by identifier.
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	if _, err := identity.Canonical(id); err != nil {
		return recorddomain.ErrRecordNotFound
	}
	res, err := r.db.DB().ExecContext(ctx, deleteRecord, id)
	if err != nil {
		if database.ErrorCode(err) == database.CodeForeignKeyViolation {
			return recorddomain.ErrRecordHasChildren
		}
		return fmt.Errorf("delete record: %w", err)
	}
	return expectOne(res)
}

// Exists reports whether a record with the given identifier exists.
func (r *RecordRepository) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := identity.Canonical(id); err != nil {
		return false, nil
	}
	var exists bool
	if err := r.db.DB().QueryRowContext(ctx, recordExists, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check record exists: %w", err)
	}
	return exists, nil
}

func (r *RecordRepository) publishCreated(ctx context.Context, tx *sql.Tx, rec *models.Record) error {
	event := domainevents.RecordCreatedEvent{
		EventID:    uuid.New(),
		Version:    domainevents.RecordCreatedEventVersion,
		RecordID:   rec.ID(),
		Name:       rec.Name.String(),
		ParentID:   rec.Parent(),
		OccurredAt: rec.CreatedAt,
	}
	msg, err := events.NewMessage(ctx, event.EventID.String(), event.Version, event)
	if err != nil {
		return err
	}
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(domainevents.TopicRecordCreated, msg)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.Record, error) {
	var (
		id, name  string
		parentID  sql.NullString
		createdAt time.Time
	)
	if err := s.Scan(&id, &name, &parentID, &createdAt); err != nil {
		return nil, err
	}
	var parent *string
	if parentID.Valid {
		parent = &parentID.String
	}
	return models.RestoreRecord(id, models.RecordName(name), parent, createdAt.UTC()), nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return recorddomain.ErrRecordNotFound
	}
	return nil
}
