package condition

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the read half of a pgx connection. *pgxpool.Pool, *pgx.Conn and
// pgx.Tx all satisfy it; passing a pgx.Tx gives every read the same snapshot.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Where runs a filtered, ordered read against relation and returns the rows.
// The caller owns closing the rows.
func Where(ctx context.Context, q Querier, relation string, columns []string, conds ...Condition) (pgx.Rows, error) {
	sql, args := BuildQuery(relation, columns, conds...)
	return q.Query(ctx, sql, args...)
}
