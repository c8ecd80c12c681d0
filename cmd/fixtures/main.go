// Command fixtures loads every YAML fixture file under FIXTURES_PATH into the
// records table. Record fixture files must be marked "_fixture: {uuid: true}"
// so each record receives its label-derived UUID; references between
// fixtures resolve before anything is inserted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cch1/uuid-primary-key/pkg/app"
	"github.com/cch1/uuid-primary-key/pkg/config"
	"github.com/cch1/uuid-primary-key/pkg/database"
	"github.com/cch1/uuid-primary-key/pkg/fixtures"
	"github.com/cch1/uuid-primary-key/pkg/logger"
	appsvcs "github.com/cch1/uuid-primary-key/services/record/application/services"
	"github.com/cch1/uuid-primary-key/services/record/infrastructure/persistence/memory"
)

const recordsCollection = "records"

// errIntegerIdentifiers rejects a records file that would produce integer
// ids, which the record service can never accept.
var errIntegerIdentifiers = errors.New(`record fixtures need UUID identifiers; add "_fixture: {uuid: true}"`)

func main() {
	dryRun := flag.Bool("dry-run", false, "validate fixtures against an in-memory store instead of the database")
	flag.Parse()
	// config.Load also parses the command line.
	os.Args = os.Args[:1]

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg).With("process", "fixtures")

	if err := run(context.Background(), cfg, *dryRun, log); err != nil {
		log.Error("fixtures failed", "error", err)
		os.Exit(1)
	}
}

// run loads the fixture files and inserts them through the record service,
// closing the database pool on every path.
func run(ctx context.Context, cfg *config.Config, dryRun bool, log logger.Logger) error {
	ids, err := app.NewIdentityManager(cfg, log)
	if err != nil {
		return fmt.Errorf("configure identity: %w", err)
	}

	sets, err := fixtures.NewLoader().LoadAll(os.DirFS(cfg.FixturesPath))
	if err != nil {
		return fmt.Errorf("load fixtures from %s: %w", cfg.FixturesPath, err)
	}

	var svcs *appsvcs.Services
	if dryRun {
		svcs = appsvcs.NewWith(memory.NewRecordRepository(), ids, nil, log)
	} else {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close() //nolint:errcheck
		svcs = appsvcs.New(&app.Application{Db: pool, Logger: log, Identity: ids})
	}

	return insert(ctx, sets, svcs.Record.Fixtures(), log)
}

// insert loads every set whose collection the record service owns. Sets are
// checked up front so a bad file inserts nothing.
func insert(ctx context.Context, sets []*fixtures.Set, ins fixtures.Inserter, log logger.Logger) error {
	var records []*fixtures.Set
	for _, s := range sets {
		if s.Collection != recordsCollection {
			log.Warn("skipping fixture file for unknown collection", "collection", s.Collection)
			continue
		}
		if !s.UUID && len(s.Fixtures) > 0 {
			return fmt.Errorf("fixtures %s: %w", s.Collection, errIntegerIdentifiers)
		}
		records = append(records, s)
	}

	for _, s := range records {
		if err := s.Insert(ctx, ins); err != nil {
			return err
		}
		log.Info("fixtures loaded", "collection", s.Collection, "count", len(s.Fixtures))
	}
	return nil
}
