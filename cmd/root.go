package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelforge/pgmodel/internal/config"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pgmodel",
	Short: "Inspect database catalog metadata and apply schema changes",
	Long: `pgmodel reads a database's information-schema catalog (columns, indexes,
index columns), synthesizes one model descriptor per table with its column
schema and primary-key ordering, and applies validated schema changes
(create table, add/alter column, create/drop index) as DDL.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			return fmt.Errorf("--config is required")
		}
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (required)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
