// Package migrator applies goose migrations: plain SQL files from an fs.FS
// plus Go steps whose DDL is rendered by a schema.Registry, so column types
// such as uuid_pk resolve per dialect instead of being hard-coded.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/cch1/uuid-primary-key/pkg/logger"
	"github.com/cch1/uuid-primary-key/pkg/schema"
)

// RenderFunc renders the statements of one migration direction.
type RenderFunc func(r *schema.Registry) ([]string, error)

// Step is a Go migration rendered through the registry at run time.
type Step struct {
	Version int64
	Up      RenderFunc
	Down    RenderFunc
}

// Migrator runs SQL and Go migrations against one database.
type Migrator struct {
	db    *sql.DB
	reg   *schema.Registry
	fsys  fs.FS
	steps []Step
	log   logger.Logger
}

// New returns a Migrator. fsys holds *.sql files at its root; steps must not
// reuse a version taken by a SQL file.
func New(db *sql.DB, reg *schema.Registry, fsys fs.FS, log logger.Logger, steps ...Step) *Migrator {
	return &Migrator{db: db, reg: reg, fsys: fsys, steps: steps, log: log}
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	p, err := m.provider()
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	m.logResults(ctx, results)
	if err != nil {
		return fmt.Errorf("failed to up migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	p, err := m.provider()
	if err != nil {
		return err
	}
	result, err := p.Down(ctx)
	if result != nil {
		m.logResults(ctx, []*goose.MigrationResult{result})
	}
	if err != nil {
		return fmt.Errorf("failed to down migration: %w", err)
	}
	return nil
}

// Status reports every known migration and whether it is applied.
func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	p, err := m.provider()
	if err != nil {
		return nil, err
	}
	return p.Status(ctx)
}

func (m *Migrator) provider() (*goose.Provider, error) {
	dialect, err := gooseDialect(m.reg.Dialect())
	if err != nil {
		return nil, err
	}

	migrations := make([]*goose.Migration, 0, len(m.steps))
	for _, s := range m.steps {
		migrations = append(migrations, goose.NewGoMigration(s.Version, m.goFunc(s.Up), m.goFunc(s.Down)))
	}

	p, err := goose.NewProvider(dialect, m.db, m.fsys,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(migrations...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return p, nil
}

func (m *Migrator) goFunc(render RenderFunc) *goose.GoFunc {
	if render == nil {
		return nil
	}
	return &goose.GoFunc{
		RunTx: func(ctx context.Context, tx *sql.Tx) error {
			stmts, err := render(m.reg)
			if err != nil {
				return err
			}
			for _, stmt := range stmts {
				m.log.DebugContext(ctx, "migrator: exec", "statement", stmt)
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("exec %q: %w", stmt, err)
				}
			}
			return nil
		},
	}
}

func (m *Migrator) logResults(ctx context.Context, results []*goose.MigrationResult) {
	for _, r := range results {
		if r.Error != nil {
			m.log.ErrorContext(ctx, "migration failed",
				"version", r.Source.Version, "direction", r.Direction, "error", r.Error)
			continue
		}
		m.log.InfoContext(ctx, "migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"direction", r.Direction,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
}

func gooseDialect(d schema.Dialect) (goose.Dialect, error) {
	switch d {
	case schema.Postgres:
		return goose.DialectPostgres, nil
	case schema.MySQL:
		return goose.DialectMySQL, nil
	default:
		return "", fmt.Errorf("migrator: unsupported dialect %q", d)
	}
}
