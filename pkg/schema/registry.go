// Package schema maps logical column-type tags ("uuid", "uuid_pk", ...) to
// physical column definitions per SQL dialect and renders the DDL that
// migrations execute.
//
// A Registry is built once and handed to the migration layer; hosts add their
// own tags with Register instead of patching a connection adapter.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Dialect names a SQL dialect.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// Column-type tags registered by NewRegistry.
const (
	TypeUUID      = "uuid"
	TypeUUIDPK    = "uuid_pk"
	TypeString    = "string"
	TypeText      = "text"
	TypeTimestamp = "timestamp"
)

// ErrUnknownColumnType is returned for a tag that has not been registered.
var ErrUnknownColumnType = errors.New("unknown column type")

// ColumnType is the physical specification behind a tag.
type ColumnType struct {
	// SQL is the column type as written in DDL, e.g. "UUID" or "CHAR(36)".
	SQL string
	// PrimaryKey appends a primary key constraint to the column definition.
	PrimaryKey bool
}

// Definition returns the type clause for use in a column definition.
func (c ColumnType) Definition() string {
	if c.PrimaryKey {
		return c.SQL + " PRIMARY KEY"
	}
	return c.SQL
}

// asciiUUID keeps frequently indexed MySQL UUID columns at 36 bytes rather
// than up to 144 under utf8mb4.
const asciiUUID = "CHAR(36) CHARACTER SET ascii COLLATE ascii_general_ci"

var builtin = map[Dialect]map[string]ColumnType{
	Postgres: {
		TypeUUID:      {SQL: "UUID"},
		TypeUUIDPK:    {SQL: "UUID", PrimaryKey: true},
		TypeString:    {SQL: "VARCHAR(255)"},
		TypeText:      {SQL: "TEXT"},
		TypeTimestamp: {SQL: "TIMESTAMPTZ"},
	},
	MySQL: {
		TypeUUID:      {SQL: asciiUUID},
		TypeUUIDPK:    {SQL: asciiUUID, PrimaryKey: true},
		TypeString:    {SQL: "VARCHAR(255)"},
		TypeText:      {SQL: "TEXT"},
		TypeTimestamp: {SQL: "DATETIME(6)"},
	},
}

// Registry maps column-type tags to ColumnTypes for one dialect.
// It is safe for concurrent use.
type Registry struct {
	dialect Dialect

	mu    sync.RWMutex
	types map[string]ColumnType
}

// NewRegistry returns a Registry preloaded with the built-in tags for dialect.
func NewRegistry(dialect Dialect) (*Registry, error) {
	defaults, ok := builtin[dialect]
	if !ok {
		return nil, fmt.Errorf("schema: unsupported dialect %q", dialect)
	}
	types := make(map[string]ColumnType, len(defaults))
	for tag, ct := range defaults {
		types[tag] = ct
	}
	return &Registry{dialect: dialect, types: types}, nil
}

// Dialect returns the registry's dialect.
func (r *Registry) Dialect() Dialect {
	return r.dialect
}

// Register adds or replaces the ColumnType for tag.
func (r *Registry) Register(tag string, ct ColumnType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[tag] = ct
}

// Lookup returns the ColumnType for tag.
func (r *Registry) Lookup(tag string) (ColumnType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.types[tag]
	if !ok {
		return ColumnType{}, fmt.Errorf("schema: %w: %q (%s)", ErrUnknownColumnType, tag, r.dialect)
	}
	return ct, nil
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
