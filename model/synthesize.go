package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelforge/pgmodel/condition"
	"github.com/modelforge/pgmodel/schema"
)

// ErrMissingPrimaryKey reports a table whose index map carries no PRIMARY_KEY
// entry. Every table must have one; its absence means the catalog itself is
// inconsistent and nothing here can repair it.
var ErrMissingPrimaryKey = errors.New("table has no PRIMARY_KEY index")

// Synthesize builds one descriptor per table in tables. Both maps must come
// from the same read cycle; a table present in tables but absent from indexes
// fails with ErrMissingPrimaryKey.
func Synthesize(tables schema.TableSchema, indexes schema.IndexMap) (map[string]*Descriptor, error) {
	models := make(map[string]*Descriptor, len(tables))
	for name, columns := range tables {
		primary, ok := indexes[name][schema.PrimaryKeyIndex]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPrimaryKey, name)
		}
		models[name] = &Descriptor{
			table:      name,
			columns:    columns,
			primaryKey: primary.Columns,
		}
	}
	return models, nil
}

// Models reads the catalog through q and synthesizes descriptors for every
// table in the namespace. Each call produces fresh descriptors from a fresh
// read; nothing is cached between calls. Pass a pgx.Tx as q to get one
// consistent snapshot across the underlying catalog reads, otherwise each
// read may observe a different catalog state.
func Models(ctx context.Context, q condition.Querier, ns schema.Namespace) (map[string]*Descriptor, error) {
	reader := schema.NewReader(ns)

	tables, err := reader.Columns(ctx, q)
	if err != nil {
		return nil, err
	}
	indexes, err := reader.Indexes(ctx, q)
	if err != nil {
		return nil, err
	}

	return Synthesize(tables, indexes)
}
