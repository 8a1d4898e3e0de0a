// Package migration defines schema-change requests and the applier that
// gates them. A request validates itself against the current table
// descriptor (or its absence, for table creation) and renders its own DDL;
// the applier fetches fresh descriptors, runs the preconditions, and hands
// the DDL to the admin client. Nothing is retried and nothing is cached.
package migration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modelforge/pgmodel/model"
	"github.com/modelforge/pgmodel/schema"
)

// ErrInvalidSchemaChange reports a change request that is structurally
// unsound relative to the current schema (or internally inconsistent, for
// table creation). The wrapped message carries the reason.
var ErrInvalidSchemaChange = errors.New("invalid schema change")

// SchemaChange is one self-validating, self-rendering schema mutation.
// Validate and DDL receive the target table's current descriptor, or nil
// when the table does not exist yet (table creation only).
type SchemaChange interface {
	Table() string
	Validate(desc *model.Descriptor) error
	DDL(desc *model.Descriptor) (string, error)
}

// ColumnDef is one column of a table being created.
type ColumnDef struct {
	Name    string
	Type    string
	NotNull bool
}

// ColumnUpdate adds, alters, or drops one column on an existing table.
// Whether it adds or alters is decided by whether the column already exists
// on the target descriptor.
type ColumnUpdate struct {
	TableName  string
	ColumnName string
	ColumnType string
	NotNull    bool
	Drop       bool
}

func (u *ColumnUpdate) Table() string { return u.TableName }

func (u *ColumnUpdate) Validate(desc *model.Descriptor) error {
	if desc == nil {
		return fmt.Errorf("%w: column update requires an existing table descriptor", ErrInvalidSchemaChange)
	}
	if u.ColumnName == "" {
		return fmt.Errorf("%w: column name is required", ErrInvalidSchemaChange)
	}
	if desc.IsPrimaryKeyColumn(u.ColumnName) {
		return fmt.Errorf("%w: column %s is part of the primary key of %s", ErrInvalidSchemaChange, u.ColumnName, u.TableName)
	}

	if u.Drop {
		if !desc.HasColumn(u.ColumnName) {
			return fmt.Errorf("%w: cannot drop unknown column %s.%s", ErrInvalidSchemaChange, u.TableName, u.ColumnName)
		}
		return nil
	}

	if u.ColumnType == "" {
		return fmt.Errorf("%w: column type is required", ErrInvalidSchemaChange)
	}
	if current, ok := desc.ColumnType(u.ColumnName); ok {
		// Altering an existing column may only change size or nullability,
		// never the base type family.
		if typeFamily(current) != typeFamily(u.ColumnType) {
			return fmt.Errorf("%w: cannot alter %s.%s from %s to %s",
				ErrInvalidSchemaChange, u.TableName, u.ColumnName, current, u.ColumnType)
		}
	}
	return nil
}

func (u *ColumnUpdate) DDL(desc *model.Descriptor) (string, error) {
	if err := u.Validate(desc); err != nil {
		return "", err
	}

	if u.Drop {
		return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s",
			quoteIdent(u.TableName), quoteIdent(u.ColumnName)), nil
	}

	verb := "ADD"
	if desc.HasColumn(u.ColumnName) {
		verb = "ALTER"
	}
	stmt := fmt.Sprintf("ALTER TABLE %s %s COLUMN %s %s",
		quoteIdent(u.TableName), verb, quoteIdent(u.ColumnName), u.ColumnType)
	if u.NotNull {
		stmt += " NOT NULL"
	}
	return stmt, nil
}

// CreateTableUpdate creates a new table. Columns keep their declared order
// in the rendered DDL.
type CreateTableUpdate struct {
	TableName   string
	Columns     []ColumnDef
	PrimaryKeys []string
}

func (u *CreateTableUpdate) Table() string { return u.TableName }

func (u *CreateTableUpdate) Validate(desc *model.Descriptor) error {
	if desc != nil {
		return fmt.Errorf("%w: create table validates against no descriptor", ErrInvalidSchemaChange)
	}
	if u.TableName == "" {
		return fmt.Errorf("%w: table name is required", ErrInvalidSchemaChange)
	}
	if len(u.Columns) == 0 {
		return fmt.Errorf("%w: table %s has no columns", ErrInvalidSchemaChange, u.TableName)
	}

	seen := make(map[string]bool, len(u.Columns))
	for _, col := range u.Columns {
		if col.Name == "" || col.Type == "" {
			return fmt.Errorf("%w: table %s has a column without name or type", ErrInvalidSchemaChange, u.TableName)
		}
		if seen[col.Name] {
			return fmt.Errorf("%w: table %s declares column %s twice", ErrInvalidSchemaChange, u.TableName, col.Name)
		}
		seen[col.Name] = true
	}

	if len(u.PrimaryKeys) == 0 {
		return fmt.Errorf("%w: table %s has no primary key", ErrInvalidSchemaChange, u.TableName)
	}
	for _, pk := range u.PrimaryKeys {
		if !seen[pk] {
			return fmt.Errorf("%w: primary key column %s is not a column of %s", ErrInvalidSchemaChange, pk, u.TableName)
		}
	}
	return nil
}

func (u *CreateTableUpdate) DDL(desc *model.Descriptor) (string, error) {
	if err := u.Validate(desc); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", quoteIdent(u.TableName))
	for i, col := range u.Columns {
		fmt.Fprintf(&b, "  %s %s", quoteIdent(col.Name), col.Type)
		if col.NotNull {
			b.WriteString(" NOT NULL")
		}
		if i < len(u.Columns)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	keys := make([]string, len(u.PrimaryKeys))
	for i, pk := range u.PrimaryKeys {
		keys[i] = quoteIdent(pk)
	}
	fmt.Fprintf(&b, ") PRIMARY KEY (%s)", strings.Join(keys, ", "))
	return b.String(), nil
}

// IndexUpdate creates or drops a secondary index on an existing table.
type IndexUpdate struct {
	TableName string
	IndexName string
	Columns   []string
	Unique    bool
	Drop      bool
}

func (u *IndexUpdate) Table() string { return u.TableName }

func (u *IndexUpdate) Validate(desc *model.Descriptor) error {
	if desc == nil {
		return fmt.Errorf("%w: index update requires an existing table descriptor", ErrInvalidSchemaChange)
	}
	if u.IndexName == "" {
		return fmt.Errorf("%w: index name is required", ErrInvalidSchemaChange)
	}
	if u.IndexName == schema.PrimaryKeyIndex {
		return fmt.Errorf("%w: %s is reserved for the primary key", ErrInvalidSchemaChange, schema.PrimaryKeyIndex)
	}

	if u.Drop {
		return nil
	}

	if len(u.Columns) == 0 {
		return fmt.Errorf("%w: index %s has no columns", ErrInvalidSchemaChange, u.IndexName)
	}
	for _, col := range u.Columns {
		if !desc.HasColumn(col) {
			return fmt.Errorf("%w: index %s references unknown column %s.%s",
				ErrInvalidSchemaChange, u.IndexName, u.TableName, col)
		}
	}
	return nil
}

func (u *IndexUpdate) DDL(desc *model.Descriptor) (string, error) {
	if err := u.Validate(desc); err != nil {
		return "", err
	}

	if u.Drop {
		return fmt.Sprintf("DROP INDEX %s", quoteIdent(u.IndexName)), nil
	}

	unique := ""
	if u.Unique {
		unique = "UNIQUE "
	}
	cols := make([]string, len(u.Columns))
	for i, col := range u.Columns {
		cols[i] = quoteIdent(col)
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		unique, quoteIdent(u.IndexName), quoteIdent(u.TableName), strings.Join(cols, ", ")), nil
}

// typeFamily strips any size parameter from a column type, e.g.
// "STRING(MAX)" → "STRING".
func typeFamily(t string) string {
	if i := strings.IndexByte(t, '('); i >= 0 {
		return t[:i]
	}
	return t
}
