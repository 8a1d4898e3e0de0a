package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/modelforge/pgmodel/migration"
)

// MigrationFile is the YAML description of an ordered list of schema
// changes. Each entry carries exactly one of the three change stanzas.
type MigrationFile struct {
	Changes []ChangeSpec `yaml:"changes"`
}

// ChangeSpec is one entry of a migration file.
type ChangeSpec struct {
	CreateTable *CreateTableSpec `yaml:"create_table"`
	Column      *ColumnSpec      `yaml:"column"`
	Index       *IndexSpec       `yaml:"index"`
}

type CreateTableSpec struct {
	Name        string      `yaml:"name"`
	Columns     []ColumnDef `yaml:"columns"`
	PrimaryKeys []string    `yaml:"primary_keys"`
}

type ColumnDef struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	NotNull bool   `yaml:"not_null"`
}

type ColumnSpec struct {
	Table   string `yaml:"table"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	NotNull bool   `yaml:"not_null"`
	Drop    bool   `yaml:"drop"`
}

type IndexSpec struct {
	Table   string   `yaml:"table"`
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
	Drop    bool     `yaml:"drop"`
}

// LoadMigration reads a migration YAML file and translates it into schema
// change requests in file order. Structural validation against the live
// catalog happens later, at apply time; only the file shape is checked here.
func LoadMigration(path string) ([]migration.SchemaChange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading migration file: %w", err)
	}

	var file MigrationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing migration file: %w", err)
	}
	if len(file.Changes) == 0 {
		return nil, fmt.Errorf("migration file %s declares no changes", path)
	}

	changes := make([]migration.SchemaChange, 0, len(file.Changes))
	for i, spec := range file.Changes {
		change, err := spec.toChange()
		if err != nil {
			return nil, fmt.Errorf("changes[%d]: %w", i, err)
		}
		changes = append(changes, change)
	}
	return changes, nil
}

func (s ChangeSpec) toChange() (migration.SchemaChange, error) {
	set := 0
	if s.CreateTable != nil {
		set++
	}
	if s.Column != nil {
		set++
	}
	if s.Index != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of create_table, column, index must be set")
	}

	switch {
	case s.CreateTable != nil:
		cols := make([]migration.ColumnDef, len(s.CreateTable.Columns))
		for i, c := range s.CreateTable.Columns {
			cols[i] = migration.ColumnDef{Name: c.Name, Type: c.Type, NotNull: c.NotNull}
		}
		return &migration.CreateTableUpdate{
			TableName:   s.CreateTable.Name,
			Columns:     cols,
			PrimaryKeys: s.CreateTable.PrimaryKeys,
		}, nil
	case s.Column != nil:
		return &migration.ColumnUpdate{
			TableName:  s.Column.Table,
			ColumnName: s.Column.Name,
			ColumnType: s.Column.Type,
			NotNull:    s.Column.NotNull,
			Drop:       s.Column.Drop,
		}, nil
	default:
		return &migration.IndexUpdate{
			TableName: s.Index.Table,
			IndexName: s.Index.Name,
			Columns:   s.Index.Columns,
			Unique:    s.Index.Unique,
			Drop:      s.Index.Drop,
		}, nil
	}
}
