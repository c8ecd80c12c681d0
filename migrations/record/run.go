package main

import (
	"context"
	"embed"
	"flag"
	"log/slog"
	"os"

	"github.com/cch1/uuid-primary-key/pkg/config"
	"github.com/cch1/uuid-primary-key/pkg/database"
	"github.com/cch1/uuid-primary-key/pkg/logger"
	"github.com/cch1/uuid-primary-key/pkg/migrator"
	"github.com/cch1/uuid-primary-key/pkg/schema"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()
	// config.Load also parses the command line.
	os.Args = os.Args[:1]

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)
	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close() //nolint:errcheck

	reg, err := schema.NewRegistry(schema.Postgres)
	if err != nil {
		log.Error("failed to build column registry", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	m := migrator.New(db.DB(), reg, MigrationsFS, log, steps...)
	if *down {
		err = m.Down(ctx)
	} else {
		err = m.Up(ctx)
	}
	if err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1) //nolint:gocritic
	}
}
