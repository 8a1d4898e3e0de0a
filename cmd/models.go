package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelforge/pgmodel/internal/db"
	"github.com/modelforge/pgmodel/internal/render"
	"github.com/modelforge/pgmodel/model"
	"github.com/modelforge/pgmodel/schema"
)

var modelsFormat string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Synthesize and print model descriptors for all tables",
	Long:  `Connects to the database, reads the catalog relations, synthesizes one model descriptor per table, and prints them in the specified format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		pool, err := db.NewPool(ctx, &cfg.Connection)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		ns := schema.Namespace{Catalog: cfg.Namespace.Catalog, Schema: cfg.Namespace.Schema}
		models, err := model.Models(ctx, pool, ns)
		if err != nil {
			return fmt.Errorf("synthesizing models: %w", err)
		}

		switch modelsFormat {
		case "text":
			return render.WriteText(os.Stdout, models)
		case "mermaid":
			return render.WriteMermaid(os.Stdout, models)
		default:
			return fmt.Errorf("unknown format: %s (supported: text, mermaid)", modelsFormat)
		}
	},
}

func init() {
	modelsCmd.Flags().StringVar(&modelsFormat, "format", "text", "output format: text or mermaid")
	rootCmd.AddCommand(modelsCmd)
}
