// Package schema reads the database's self-describing catalog relations and
// folds them into typed, per-table maps. It targets Spanner-flavored
// information schemas reached over the PostgreSQL wire protocol: columns,
// indexes and index-columns are ordinary relations, every table carries an
// index named PRIMARY_KEY, and the default namespace is the empty catalog
// and schema pair.
package schema

// Catalog relations read by this package.
const (
	ColumnsRelation      = "information_schema.columns"
	IndexesRelation      = "information_schema.indexes"
	IndexColumnsRelation = "information_schema.index_columns"
)

// PrimaryKeyIndex is the reserved name of the index representing a table's
// primary key. Every table has exactly one.
const PrimaryKeyIndex = "PRIMARY_KEY"

// Namespace scopes catalog reads to one catalog/schema pair.
type Namespace struct {
	Catalog string
	Schema  string
}

// DefaultNamespace is the unqualified namespace. The empty strings are the
// catalog's own convention for "default", not missing values; deployments
// with other conventions (e.g. PostgreSQL's "public") substitute their own.
var DefaultNamespace = Namespace{Catalog: "", Schema: ""}

// ColumnRow is one row of the columns relation.
type ColumnRow struct {
	TableName  string
	ColumnName string
	Type       string
}

// IndexRow is one row of the indexes relation.
type IndexRow struct {
	TableName string
	IndexName string
	IndexType string
	IsUnique  bool
	State     string
}

// IndexColumnRow is one row of the index-columns relation. OrdinalPosition
// is the column's rank within the index key ordering; nil means the column
// is stored with the index but not part of the key.
type IndexColumnRow struct {
	TableName       string
	IndexName       string
	ColumnName      string
	OrdinalPosition *int64
}

// TableSchema maps table name to column name to column type.
type TableSchema map[string]map[string]string

// Index is the reconstructed definition of one index.
type Index struct {
	Columns []string // key columns in ordinal order
	Type    string
	Unique  bool
	State   string
}

// IndexMap maps table name to index name to index definition.
type IndexMap map[string]map[string]Index
