package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelforge/pgmodel/admin"
	"github.com/modelforge/pgmodel/condition"
	"github.com/modelforge/pgmodel/model"
	"github.com/modelforge/pgmodel/schema"
)

var (
	// ErrUnknownTable reports a column or index change targeting a table
	// that is not in the current model map.
	ErrUnknownTable = errors.New("unknown table")

	// ErrTableExists reports a create-table change targeting a table that
	// already exists.
	ErrTableExists = errors.New("table already exists")

	// ErrChangeTypeMismatch reports a change handed to the wrong apply
	// method. This is a programmer error and is raised before any catalog
	// read or DDL submission.
	ErrChangeTypeMismatch = errors.New("schema change type mismatch")
)

// ModelsFunc fetches the current table → descriptor map. The applier calls
// it once per apply, so every change is validated against a fresh view of
// the catalog.
type ModelsFunc func(ctx context.Context) (map[string]*model.Descriptor, error)

// Applier validates schema-change requests against the live catalog and
// submits their DDL. It holds no state between calls and performs no
// locking; concurrent migrations race at the database's own DDL layer.
type Applier struct {
	models ModelsFunc
	admin  admin.Client
}

// NewApplier builds an Applier from an explicit models source and admin
// client.
func NewApplier(models ModelsFunc, client admin.Client) *Applier {
	return &Applier{models: models, admin: client}
}

// DB is a connection usable for both catalog reads and DDL execution.
// *pgxpool.Pool and *pgx.Conn satisfy it.
type DB interface {
	condition.Querier
	admin.Execer
}

// NewApplierForDB wires an Applier that reads models from db's catalog in
// the given namespace and executes DDL over the same connection.
func NewApplierForDB(db DB, ns schema.Namespace) *Applier {
	return &Applier{
		models: func(ctx context.Context) (map[string]*model.Descriptor, error) {
			return model.Models(ctx, db, ns)
		},
		admin: admin.NewConn(db),
	}
}

// ApplyColumnUpdate applies a *ColumnUpdate. The target table must already
// exist; its current descriptor drives validation and DDL rendering.
func (a *Applier) ApplyColumnUpdate(ctx context.Context, change SchemaChange) error {
	cu, ok := change.(*ColumnUpdate)
	if !ok {
		return fmt.Errorf("%w: ApplyColumnUpdate got %T", ErrChangeTypeMismatch, change)
	}
	return a.applyToExisting(ctx, cu)
}

// ApplyIndexUpdate applies an *IndexUpdate. The target table must already
// exist.
func (a *Applier) ApplyIndexUpdate(ctx context.Context, change SchemaChange) error {
	iu, ok := change.(*IndexUpdate)
	if !ok {
		return fmt.Errorf("%w: ApplyIndexUpdate got %T", ErrChangeTypeMismatch, change)
	}
	return a.applyToExisting(ctx, iu)
}

// ApplyCreateTable applies a *CreateTableUpdate. The target table must not
// exist yet; validation and DDL rendering run with no descriptor.
func (a *Applier) ApplyCreateTable(ctx context.Context, change SchemaChange) error {
	ct, ok := change.(*CreateTableUpdate)
	if !ok {
		return fmt.Errorf("%w: ApplyCreateTable got %T", ErrChangeTypeMismatch, change)
	}

	models, err := a.models(ctx)
	if err != nil {
		return err
	}
	if _, exists := models[ct.Table()]; exists {
		return fmt.Errorf("%w: %s", ErrTableExists, ct.Table())
	}
	if err := ct.Validate(nil); err != nil {
		return err
	}
	ddl, err := ct.DDL(nil)
	if err != nil {
		return err
	}
	return a.admin.UpdateDDL(ctx, ddl)
}

// Apply dispatches change to the apply method matching its variant.
func (a *Applier) Apply(ctx context.Context, change SchemaChange) error {
	switch change.(type) {
	case *ColumnUpdate:
		return a.ApplyColumnUpdate(ctx, change)
	case *CreateTableUpdate:
		return a.ApplyCreateTable(ctx, change)
	case *IndexUpdate:
		return a.ApplyIndexUpdate(ctx, change)
	default:
		return fmt.Errorf("%w: unsupported schema change %T", ErrChangeTypeMismatch, change)
	}
}

func (a *Applier) applyToExisting(ctx context.Context, change SchemaChange) error {
	models, err := a.models(ctx)
	if err != nil {
		return err
	}
	desc, ok := models[change.Table()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, change.Table())
	}
	if err := change.Validate(desc); err != nil {
		return err
	}
	ddl, err := change.DDL(desc)
	if err != nil {
		return err
	}
	return a.admin.UpdateDDL(ctx, ddl)
}
