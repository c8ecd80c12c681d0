package schema

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Column describes a column in terms of a registered type tag.
type Column struct {
	Name string
	Type string

	NotNull bool
	// Default is a SQL literal rendered verbatim, e.g. "'00000000-0000-0000-0000-000000000000'".
	Default string
	// References adds a foreign key to the given column.
	References *ForeignKey
}

// ForeignKey names the column a Column references.
type ForeignKey struct {
	Table  string
	Column string
}

// Quote quotes a possibly schema-qualified identifier for the dialect.
func (r *Registry) Quote(ident string) string {
	parts := strings.Split(ident, ".")
	if r.dialect == Postgres {
		return pgx.Identifier(parts).Sanitize()
	}
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

// CreateTable renders CREATE TABLE for cols.
func (r *Registry) CreateTable(table string, cols ...Column) (string, error) {
	if len(cols) == 0 {
		return "", fmt.Errorf("schema: create table %s: no columns", table)
	}
	defs := make([]string, 0, len(cols))
	var constraints []string
	for _, c := range cols {
		def, err := r.columnDefinition(c, true)
		if err != nil {
			return "", err
		}
		defs = append(defs, def)
		if c.References != nil && r.dialect == MySQL {
			constraints = append(constraints, r.foreignKey(c))
		}
	}
	defs = append(defs, constraints...)
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", r.Quote(table), strings.Join(defs, ",\n    ")), nil
}

// AddColumn renders ALTER TABLE ... ADD COLUMN.
func (r *Registry) AddColumn(table string, c Column) (string, error) {
	def, err := r.columnDefinition(c, true)
	if err != nil {
		return "", err
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", r.Quote(table), def)
	if c.References != nil && r.dialect == MySQL {
		stmt += ", ADD " + r.foreignKey(c)
	}
	return stmt, nil
}

// ChangeColumn renders a statement converting an existing column to c's type.
// Primary key and foreign key settings are not altered.
func (r *Registry) ChangeColumn(table string, c Column) (string, error) {
	ct, err := r.Lookup(c.Type)
	if err != nil {
		return "", err
	}
	name := r.Quote(c.Name)

	if r.dialect == MySQL {
		def, err := r.columnDefinition(Column{Name: c.Name, Type: c.Type, NotNull: c.NotNull, Default: c.Default}, false)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s", r.Quote(table), def), nil
	}

	clauses := []string{fmt.Sprintf("ALTER COLUMN %s TYPE %s USING %s::%s", name, ct.SQL, name, ct.SQL)}
	if c.NotNull {
		clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s SET NOT NULL", name))
	}
	if c.Default != "" {
		clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s SET DEFAULT %s", name, c.Default))
	}
	return fmt.Sprintf("ALTER TABLE %s %s", r.Quote(table), strings.Join(clauses, ", ")), nil
}

// AddIndex renders CREATE [UNIQUE] INDEX.
func (r *Registry) AddIndex(table, name string, unique bool, columns ...string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("schema: index %s: no columns", name)
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = r.Quote(c)
	}
	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s %s ON %s (%s)", kind, r.Quote(name), r.Quote(table), strings.Join(quoted, ", ")), nil
}

// DropColumn renders ALTER TABLE ... DROP COLUMN.
func (r *Registry) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", r.Quote(table), r.Quote(column))
}

// DropTable renders DROP TABLE.
func (r *Registry) DropTable(table string) string {
	return fmt.Sprintf("DROP TABLE %s", r.Quote(table))
}

func (r *Registry) columnDefinition(c Column, withPK bool) (string, error) {
	ct, err := r.Lookup(c.Type)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(r.Quote(c.Name))
	b.WriteByte(' ')
	if withPK {
		b.WriteString(ct.Definition())
	} else {
		b.WriteString(ct.SQL)
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	if c.References != nil && r.dialect == Postgres {
		fmt.Fprintf(&b, " REFERENCES %s (%s)", r.Quote(c.References.Table), r.Quote(c.References.Column))
	}
	return b.String(), nil
}

func (r *Registry) foreignKey(c Column) string {
	return fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
		r.Quote(c.Name), r.Quote(c.References.Table), r.Quote(c.References.Column))
}
