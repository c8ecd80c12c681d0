package main

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/cch1/uuid-primary-key/pkg/config"
	"github.com/cch1/uuid-primary-key/pkg/fixtures"
	"github.com/cch1/uuid-primary-key/pkg/identity"
	"github.com/cch1/uuid-primary-key/pkg/logger"
	appsvcs "github.com/cch1/uuid-primary-key/services/record/application/services"
	"github.com/cch1/uuid-primary-key/services/record/domain/repositories"
	"github.com/cch1/uuid-primary-key/services/record/infrastructure/persistence/memory"
)

func TestInsert_RepositoryFixtures(t *testing.T) {
	sets, err := fixtures.NewLoader().LoadAll(os.DirFS("../../fixtures"))
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	repo := memory.NewRecordRepository()
	svcs := appsvcs.NewWith(repo, identity.NewAssigner(), nil, logger.Discard())
	if err := insert(context.Background(), sets, svcs.Record.Fixtures(), logger.Discard()); err != nil {
		t.Fatalf("insert: %v", err)
	}

	for _, label := range []string{"catalog", "hardware", "sprocket"} {
		if ok, _ := repo.Exists(context.Background(), fixtures.FromLabel(label).String()); !ok {
			t.Errorf("fixture %q not inserted", label)
		}
	}
}

func TestInsert_SkipsUnknownCollections(t *testing.T) {
	set, err := fixtures.NewLoader().Decode([]byte("alpha:\n  name: Alpha\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	set.Collection = "widgets"

	repo := memory.NewRecordRepository()
	svcs := appsvcs.NewWith(repo, identity.NewAssigner(), nil, logger.Discard())
	if err := insert(context.Background(), []*fixtures.Set{set}, svcs.Record.Fixtures(), logger.Discard()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if ok, _ := repo.Exists(context.Background(), fixtures.FromLabel("alpha").String()); ok {
		t.Fatal("unknown collection was inserted")
	}
}

func TestInsert_RejectsIntegerIdentifiers(t *testing.T) {
	set, err := fixtures.NewLoader().Decode([]byte("alpha:\n  name: Alpha\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	set.Collection = recordsCollection

	repo := memory.NewRecordRepository()
	svcs := appsvcs.NewWith(repo, identity.NewAssigner(), nil, logger.Discard())
	err = insert(context.Background(), []*fixtures.Set{set}, svcs.Record.Fixtures(), logger.Discard())
	if !errors.Is(err, errIntegerIdentifiers) {
		t.Fatalf("expected errIntegerIdentifiers, got %v", err)
	}
	if _, total, _ := repo.List(context.Background(), repositories.QueryOpts{}); total != 0 {
		t.Fatalf("expected nothing inserted, got %d records", total)
	}
}

func TestRun_DryRun(t *testing.T) {
	cfg := &config.Config{
		FixturesPath:       "../../fixtures",
		IdentityVersion:    "v6",
		IdentityValidation: "strict",
		IdentityField:      "id",
	}
	if err := run(context.Background(), cfg, true, logger.Discard()); err != nil {
		t.Fatalf("run: %v", err)
	}
}
