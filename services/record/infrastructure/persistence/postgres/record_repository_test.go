package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cch1/uuid-primary-key/pkg/database"
	"github.com/cch1/uuid-primary-key/pkg/logger"
	recorddomain "github.com/cch1/uuid-primary-key/services/record/domain"
	"github.com/cch1/uuid-primary-key/services/record/domain/models"
	"github.com/cch1/uuid-primary-key/services/record/domain/repositories"
	"github.com/cch1/uuid-primary-key/services/record/infrastructure/persistence/postgres"
)

// Integration tests, skipped unless DATABASE_URL points at a migrated database.
func TestRecordRepositoryIntegration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping integration tests")
	}

	ctx := context.Background()
	db, err := database.NewPool(ctx, url, logger.Discard())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := postgres.NewRecordRepository(db, nil)
	now := time.Now().UTC().Truncate(time.Microsecond)

	newRecord := func(t *testing.T, name string, parent *string) *models.Record {
		t.Helper()
		id := uuid.Must(uuid.NewV7()).String()
		rec := models.RestoreRecord(id, models.RecordName(name), parent, now)
		t.Cleanup(func() { _ = repo.Delete(context.Background(), id) })
		return rec
	}

	t.Run("Save_GetByID", func(t *testing.T) {
		rec := newRecord(t, "Catalog", nil)
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := repo.GetByID(ctx, rec.ID())
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.ID() != rec.ID() || got.Name != rec.Name || !got.CreatedAt.Equal(now) || got.ParentID != nil {
			t.Fatalf("unexpected record: %+v", got)
		}
	})

	t.Run("Save_Duplicate", func(t *testing.T) {
		rec := newRecord(t, "Catalog", nil)
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := repo.Save(ctx, rec); !errors.Is(err, recorddomain.ErrRecordAlreadyExists) {
			t.Fatalf("expected ErrRecordAlreadyExists, got %v", err)
		}
	})

	t.Run("Save_MissingParent", func(t *testing.T) {
		missing := uuid.NewString()
		rec := newRecord(t, "Orphan", &missing)
		if err := repo.Save(ctx, rec); !errors.Is(err, recorddomain.ErrParentNotFound) {
			t.Fatalf("expected ErrParentNotFound, got %v", err)
		}
	})

	t.Run("Delete_WithChildren", func(t *testing.T) {
		parent := newRecord(t, "Parent", nil)
		if err := repo.Save(ctx, parent); err != nil {
			t.Fatalf("Save parent: %v", err)
		}
		pid := parent.ID()
		child := newRecord(t, "Child", &pid)
		if err := repo.Save(ctx, child); err != nil {
			t.Fatalf("Save child: %v", err)
		}
		if err := repo.Delete(ctx, pid); !errors.Is(err, recorddomain.ErrRecordHasChildren) {
			t.Fatalf("expected ErrRecordHasChildren, got %v", err)
		}
		if err := repo.Delete(ctx, child.ID()); err != nil {
			t.Fatalf("Delete child: %v", err)
		}
		if err := repo.Delete(ctx, pid); err != nil {
			t.Fatalf("Delete parent: %v", err)
		}
		if ok, err := repo.Exists(ctx, pid); err != nil || ok {
			t.Fatalf("Exists after delete: %v, %v", ok, err)
		}
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		rec := models.RestoreRecord(uuid.NewString(), "Ghost", nil, now)
		if err := repo.Update(ctx, rec); !errors.Is(err, recorddomain.ErrRecordNotFound) {
			t.Fatalf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("GetByID_Malformed", func(t *testing.T) {
		if _, err := repo.GetByID(ctx, "not-a-uuid"); !errors.Is(err, recorddomain.ErrRecordNotFound) {
			t.Fatalf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("List_CountsAll", func(t *testing.T) {
		rec := newRecord(t, "Listed", nil)
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		recs, total, err := repo.List(ctx, repositories.QueryOpts{Limit: 1})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(recs) != 1 || total < 1 {
			t.Fatalf("unexpected page: len=%d total=%d", len(recs), total)
		}
	})
}
