package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modelforge/pgmodel/condition"
)

// ErrCatalogRead wraps any failure of the underlying catalog fetch. Reads are
// never retried here; the database error is preserved in the chain.
var ErrCatalogRead = errors.New("catalog read failed")

// Reader compiles catalog relations into TableSchema and IndexMap views.
// Every call reads the catalog fresh; nothing is cached. Reads issued with
// the same pgx.Tx observe one consistent snapshot, reads issued against a
// pool may each see a different one.
type Reader struct {
	ns Namespace
}

// NewReader returns a Reader scoped to the given namespace.
func NewReader(ns Namespace) *Reader {
	return &Reader{ns: ns}
}

// Columns reads the columns relation and folds it into table → column → type.
func (r *Reader) Columns(ctx context.Context, q condition.Querier) (TableSchema, error) {
	rows, err := condition.Where(ctx, q, ColumnsRelation,
		[]string{"table_name", "column_name", "spanner_type"},
		condition.Equals("table_catalog", r.ns.Catalog),
		condition.Equals("table_schema", r.ns.Schema),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", ErrCatalogRead, ColumnsRelation, err)
	}
	defer rows.Close()

	var cols []ColumnRow
	for rows.Next() {
		var c ColumnRow
		if err := rows.Scan(&c.TableName, &c.ColumnName, &c.Type); err != nil {
			return nil, fmt.Errorf("%w: scanning %s: %w", ErrCatalogRead, ColumnsRelation, err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrCatalogRead, ColumnsRelation, err)
	}

	return foldColumns(cols), nil
}

// Indexes reads the index-columns and indexes relations and folds them into
// an IndexMap. Index key columns are requested ordered ascending by ordinal
// position and appended in fetch order; rows whose ordinal position is NULL
// are filtered out at the database.
func (r *Reader) Indexes(ctx context.Context, q condition.Querier) (IndexMap, error) {
	indexCols, err := r.readIndexColumns(ctx, q)
	if err != nil {
		return nil, err
	}

	rows, err := condition.Where(ctx, q, IndexesRelation,
		[]string{"table_name", "index_name", "index_type", "is_unique", "index_state"},
		condition.Equals("table_catalog", r.ns.Catalog),
		condition.Equals("table_schema", r.ns.Schema),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", ErrCatalogRead, IndexesRelation, err)
	}
	defer rows.Close()

	var idx []IndexRow
	for rows.Next() {
		var i IndexRow
		if err := rows.Scan(&i.TableName, &i.IndexName, &i.IndexType, &i.IsUnique, &i.State); err != nil {
			return nil, fmt.Errorf("%w: scanning %s: %w", ErrCatalogRead, IndexesRelation, err)
		}
		idx = append(idx, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrCatalogRead, IndexesRelation, err)
	}

	return foldIndexes(idx, indexCols), nil
}

func (r *Reader) readIndexColumns(ctx context.Context, q condition.Querier) (map[indexKey][]string, error) {
	rows, err := condition.Where(ctx, q, IndexColumnsRelation,
		[]string{"table_name", "index_name", "column_name", "ordinal_position"},
		condition.Equals("table_catalog", r.ns.Catalog),
		condition.Equals("table_schema", r.ns.Schema),
		condition.NotNull("ordinal_position"),
		condition.OrderBy("ordinal_position", condition.Ascending),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", ErrCatalogRead, IndexColumnsRelation, err)
	}
	defer rows.Close()

	var cols []IndexColumnRow
	for rows.Next() {
		var c IndexColumnRow
		if err := rows.Scan(&c.TableName, &c.IndexName, &c.ColumnName, &c.OrdinalPosition); err != nil {
			return nil, fmt.Errorf("%w: scanning %s: %w", ErrCatalogRead, IndexColumnsRelation, err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrCatalogRead, IndexColumnsRelation, err)
	}

	return foldIndexColumns(cols), nil
}

type indexKey struct {
	table string
	index string
}

// foldColumns groups column rows into table → column → type. The catalog
// never emits duplicate (table, column) pairs; if it did, the last row wins.
func foldColumns(rows []ColumnRow) TableSchema {
	tables := make(TableSchema)
	for _, row := range rows {
		cols, ok := tables[row.TableName]
		if !ok {
			cols = make(map[string]string)
			tables[row.TableName] = cols
		}
		cols[row.ColumnName] = row.Type
	}
	return tables
}

// foldIndexColumns groups index-column rows into per-index column sequences,
// appending in input order. Rows without an ordinal position are skipped:
// those columns are stored with the index but not part of its key.
func foldIndexColumns(rows []IndexColumnRow) map[indexKey][]string {
	cols := make(map[indexKey][]string)
	for _, row := range rows {
		if row.OrdinalPosition == nil {
			continue
		}
		key := indexKey{table: row.TableName, index: row.IndexName}
		cols[key] = append(cols[key], row.ColumnName)
	}
	return cols
}

// foldIndexes zips index rows with their reconstructed column sequences.
// An index with no key columns on record gets an empty sequence.
func foldIndexes(rows []IndexRow, cols map[indexKey][]string) IndexMap {
	indexes := make(IndexMap)
	for _, row := range rows {
		byName, ok := indexes[row.TableName]
		if !ok {
			byName = make(map[string]Index)
			indexes[row.TableName] = byName
		}
		byName[row.IndexName] = Index{
			Columns: cols[indexKey{table: row.TableName, index: row.IndexName}],
			Type:    row.IndexType,
			Unique:  row.IsUnique,
			State:   row.State,
		}
	}
	return indexes
}

// compile-time check that pgx.Tx satisfies the read interface the Reader
// accepts, since passing a transaction is how callers get one snapshot
// across all three reads.
var _ condition.Querier = (pgx.Tx)(nil)
