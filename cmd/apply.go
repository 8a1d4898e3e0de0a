package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelforge/pgmodel/internal/config"
	"github.com/modelforge/pgmodel/internal/db"
	"github.com/modelforge/pgmodel/migration"
	"github.com/modelforge/pgmodel/model"
	"github.com/modelforge/pgmodel/schema"
)

var (
	migrationPath string
	dryRun        bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply schema changes from a migration file",
	Long: `Reads an ordered list of schema changes from a YAML migration file,
validates each against the current catalog, and submits the resulting DDL.
Changes are applied in file order; the first failure stops the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if migrationPath == "" {
			return fmt.Errorf("--file is required")
		}
		changes, err := config.LoadMigration(migrationPath)
		if err != nil {
			return err
		}

		pool, err := db.NewPool(ctx, &cfg.Connection)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		ns := schema.Namespace{Catalog: cfg.Namespace.Catalog, Schema: cfg.Namespace.Schema}
		applier := migration.NewApplierForDB(pool, ns)
		if dryRun {
			applier = dryRunApplier(pool, ns, cmd)
		}

		for i, change := range changes {
			if err := applier.Apply(ctx, change); err != nil {
				return fmt.Errorf("applying change %d for table %s: %w", i+1, change.Table(), err)
			}
			if !dryRun {
				cmd.Printf("applied change %d: %s\n", i+1, change.Table())
			}
		}
		return nil
	},
}

// dryRunApplier validates against the live catalog but prints DDL instead of
// executing it. Later changes that depend on earlier ones (e.g. indexing a
// table created in the same file) will still fail validation, since nothing
// is actually applied.
func dryRunApplier(pool migration.DB, ns schema.Namespace, cmd *cobra.Command) *migration.Applier {
	return migration.NewApplier(
		func(ctx context.Context) (map[string]*model.Descriptor, error) {
			return model.Models(ctx, pool, ns)
		},
		printClient{cmd: cmd},
	)
}

type printClient struct {
	cmd *cobra.Command
}

func (p printClient) UpdateDDL(ctx context.Context, statements ...string) error {
	for _, stmt := range statements {
		p.cmd.Printf("%s;\n", stmt)
	}
	return nil
}

func init() {
	applyCmd.Flags().StringVar(&migrationPath, "file", "", "path to YAML migration file (required)")
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print DDL without executing it")
	rootCmd.AddCommand(applyCmd)
}
