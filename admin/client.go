// Package admin submits schema-change DDL to the database's administrative
// surface. The library only hands statements over; it never polls for the
// completion of long-running schema operations.
package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Client accepts DDL statements for execution. Implementations decide how
// statements reach the database; the library calls UpdateDDL exactly once
// per schema change and treats any error as fatal for that change.
type Client interface {
	UpdateDDL(ctx context.Context, statements ...string) error
}

// Execer is the write half of a pgx connection. *pgxpool.Pool, *pgx.Conn and
// pgx.Tx all satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Conn submits DDL over an existing pgx connection, one statement at a time.
type Conn struct {
	db Execer
}

// NewConn returns a Client that executes statements through db.
func NewConn(db Execer) *Conn {
	return &Conn{db: db}
}

// UpdateDDL executes each statement in order and stops at the first failure.
// Statements already executed are not rolled back; schema changes are not
// transactional across statements.
func (c *Conn) UpdateDDL(ctx context.Context, statements ...string) error {
	for _, stmt := range statements {
		if _, err := c.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL %q: %w", stmt, err)
		}
	}
	return nil
}
