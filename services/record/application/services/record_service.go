package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/cch1/uuid-primary-key/pkg/cache"
	"github.com/cch1/uuid-primary-key/pkg/identity"
	"github.com/cch1/uuid-primary-key/pkg/logger"
	recorddomain "github.com/cch1/uuid-primary-key/services/record/domain"
	"github.com/cch1/uuid-primary-key/services/record/domain/models"
	"github.com/cch1/uuid-primary-key/services/record/domain/repositories"
	domainsvcs "github.com/cch1/uuid-primary-key/services/record/domain/services"
)

// FieldParentID is the field parent reference errors are keyed to.
const FieldParentID = "parent_id"

// RecordCache is the read-model cache consulted by RecordService.
// *pkgcache.RecordCache implements it; Get returns redis.Nil on a miss.
type RecordCache interface {
	Get(ctx context.Context, id string) (*pkgcache.CachedRecord, error)
	Set(ctx context.Context, rec *pkgcache.CachedRecord) error
	Delete(ctx context.Context, id string) error
}

// RecordService orchestrates the Record lifecycle. Identifiers are assigned
// by the identity.Manager right before the first save and never change
// afterwards. Event publishing is handled by the repository (outbox pattern).
type RecordService struct {
	repo  repositories.RecordRepository
	ids   identity.Manager
	cache RecordCache
	log   logger.Logger
}

// NewRecordService returns a RecordService. cache may be nil.
func NewRecordService(repo repositories.RecordRepository, ids identity.Manager, cache RecordCache, log logger.Logger) *RecordService {
	if log == nil {
		log = logger.Discard()
	}
	return &RecordService{repo: repo, ids: ids, cache: cache, log: log}
}

// CreateParams are the inputs to Create. A nil ID asks for a generated
// identifier; a non-nil ID, even "", is used as supplied.
type CreateParams struct {
	ID       *string
	Name     string
	ParentID *string
}

// Create validates, identifies and persists a new Record.
func (s *RecordService) Create(ctx context.Context, p CreateParams) (*models.Record, error) {
	name, err := models.NewRecordName(p.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recorddomain.ErrInvalidRecordName, err)
	}

	rec := models.NewRecord(name)
	if p.ID != nil {
		// Parseable ids are stored lower-case; malformed text is kept so
		// Validate reports it.
		id := *p.ID
		if canon, err := identity.Canonical(id); err == nil {
			id = canon
		}
		if err := s.ids.SetIdentifier(rec, id); err != nil {
			return nil, fmt.Errorf("create record: %w", err)
		}
	}
	if err := s.ids.Validate(ctx, rec); err != nil {
		return nil, err
	}

	if p.ParentID != nil {
		parent, err := identity.Canonical(*p.ParentID)
		if err != nil {
			return nil, &identity.FieldError{Field: FieldParentID, Message: identity.MessageMalformed, Err: err}
		}
		rec.ParentID = &parent
	}

	if err := s.ids.AssignIfAbsent(ctx, rec); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}

	if err := domainsvcs.ValidateRecordForCreation(rec); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}

	s.log.InfoContext(ctx, "record created", "record_id", rec.ID())
	return rec, nil
}

// Get retrieves a Record using a read-through cache:
//  1. Check the cache first.
//  2. On a miss (or cache error), query the repository.
//  3. Warm the cache with the result.
//
// id must be canonical UUID text; anything else fails with
// identity.ErrMalformedIdentifier.
func (s *RecordService) Get(ctx context.Context, id string) (*models.Record, error) {
	id, err := identity.Canonical(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			return fromCache(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "record cache read failed", "record_id", id, "error", err)
		}
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	s.warm(ctx, rec)
	return rec, nil
}

// List returns a page of records ordered by creation time plus the total count.
func (s *RecordService) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Record, int, error) {
	recs, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	return recs, total, nil
}

// Rename changes a record's name. The identifier is untouched.
func (s *RecordService) Rename(ctx context.Context, id, name string) (*models.Record, error) {
	id, err := identity.Canonical(id)
	if err != nil {
		return nil, err
	}

	newName, err := models.NewRecordName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recorddomain.ErrInvalidRecordName, err)
	}
	if err := domainsvcs.ValidateName(newName); err != nil {
		return nil, fmt.Errorf("%w: %w", recorddomain.ErrInvalidRecordName, err)
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	rec.Rename(newName)
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}

	s.warm(ctx, rec)
	return rec, nil
}

// ChangeID attempts to replace a persisted record's identifier. Identifiers
// are immutable once assigned, so for an existing record this always fails
// with identity.ErrImmutableIdentifier and nothing is written.
func (s *RecordService) ChangeID(ctx context.Context, id, newID string) error {
	id, err := identity.Canonical(id)
	if err != nil {
		return err
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get record: %w", err)
	}
	if err := s.ids.SetIdentifier(rec, newID); err != nil {
		return fmt.Errorf("change record id: %w", err)
	}
	// Unreachable for persisted records, which always carry an identifier.
	return fmt.Errorf("change record id: %w", identity.ErrImmutableIdentifier)
}

// Delete removes a record. Returns ErrRecordNotFound if it does not exist.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	id, err := identity.Canonical(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.WarnContext(ctx, "record cache invalidation failed", "record_id", id, "error", err)
		}
	}
	return nil
}

// warm writes rec to the cache. Failures are logged and otherwise ignored.
func (s *RecordService) warm(ctx context.Context, rec *models.Record) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, toCache(rec)); err != nil {
		s.log.WarnContext(ctx, "record cache write failed", "record_id", rec.ID(), "error", err)
	}
}

// toCache converts a Record to its cached read model.
func toCache(rec *models.Record) *pkgcache.CachedRecord {
	return &pkgcache.CachedRecord{
		ID:        rec.ID(),
		Name:      rec.Name.String(),
		ParentID:  rec.Parent(),
		CreatedAt: rec.CreatedAt,
	}
}

func fromCache(c *pkgcache.CachedRecord) *models.Record {
	var parent *string
	if c.ParentID != "" {
		p := c.ParentID
		parent = &p
	}
	return models.RestoreRecord(c.ID, models.RecordName(c.Name), parent, c.CreatedAt)
}
