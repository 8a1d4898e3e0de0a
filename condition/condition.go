// Package condition provides the predicate and fetch primitives used to read
// catalog relations. A query is assembled from a relation name, a column list,
// and an ordered set of conditions (equality, NOT NULL, order-by), then run
// against any pgx Querier: a pool, a single connection, or a transaction.
package condition

import (
	"fmt"
	"strings"
)

// Direction is the sort direction of an OrderBy condition.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// Condition contributes one predicate or ordering clause to a catalog query.
type Condition interface {
	// clause renders the SQL fragment. n is the index of the next positional
	// placeholder; the returned args are appended to the query arguments.
	clause(n int) (sql string, args []any)
	ordering() bool
}

type equals struct {
	column string
	value  any
}

// Equals matches rows whose column equals value.
func Equals(column string, value any) Condition {
	return equals{column: column, value: value}
}

func (c equals) clause(n int) (string, []any) {
	return fmt.Sprintf("%s = $%d", c.column, n), []any{c.value}
}

func (c equals) ordering() bool { return false }

type notNull struct {
	column string
}

// NotNull matches rows whose column is present. It is the inequality form
// used to exclude sentinel NULLs, e.g. index columns that are stored but not
// part of the key ordering.
func NotNull(column string) Condition {
	return notNull{column: column}
}

func (c notNull) clause(int) (string, []any) {
	return c.column + " IS NOT NULL", nil
}

func (c notNull) ordering() bool { return false }

type orderBy struct {
	column    string
	direction Direction
}

// OrderBy sorts the result by column in the given direction. The sort is
// performed by the database; callers folding ordered rows rely on it as a
// hard contract and never re-sort locally.
func OrderBy(column string, direction Direction) Condition {
	return orderBy{column: column, direction: direction}
}

func (c orderBy) clause(int) (string, []any) {
	return fmt.Sprintf("%s %s", c.column, c.direction), nil
}

func (c orderBy) ordering() bool { return true }

// BuildQuery renders a SELECT over relation with the given column list and
// conditions. Non-ordering conditions become the WHERE clause joined by AND,
// ordering conditions become the ORDER BY clause, both in the order given.
func BuildQuery(relation string, columns []string, conds ...Condition) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(relation)

	var args []any
	var where []string
	var order []string
	for _, c := range conds {
		sql, a := c.clause(len(args) + 1)
		if c.ordering() {
			order = append(order, sql)
			continue
		}
		where = append(where, sql)
		args = append(args, a...)
	}

	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if len(order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(order, ", "))
	}
	return b.String(), args
}
