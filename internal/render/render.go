// Package render writes synthesized model descriptors in human-readable
// formats. Output is deterministic: tables, columns and indexes are sorted
// by name so two dumps of the same catalog compare equal.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/modelforge/pgmodel/model"
)

// WriteText writes a plain-text summary of the descriptor map to w.
func WriteText(w io.Writer, models map[string]*model.Descriptor) error {
	names := sortedTables(models)

	fmt.Fprintf(w, "Tables: %d\n\n", len(names))
	for _, name := range names {
		desc := models[name]
		fmt.Fprintf(w, "%s (PK: %s)\n", name, strings.Join(desc.PrimaryIndexKeys(), ", "))

		columns := desc.Schema()
		colNames := make([]string, 0, len(columns))
		for col := range columns {
			colNames = append(colNames, col)
		}
		sort.Strings(colNames)
		for _, col := range colNames {
			marker := " "
			if desc.IsPrimaryKeyColumn(col) {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %s %s\n", marker, col, columns[col])
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteMermaid writes the descriptor map as a Mermaid ER diagram to w.
func WriteMermaid(w io.Writer, models map[string]*model.Descriptor) error {
	names := sortedTables(models)

	fmt.Fprintln(w, "erDiagram")
	for _, name := range names {
		desc := models[name]
		fmt.Fprintf(w, "    %s {\n", mermaidID(name))

		columns := desc.Schema()
		colNames := make([]string, 0, len(columns))
		for col := range columns {
			colNames = append(colNames, col)
		}
		sort.Strings(colNames)
		for _, col := range colNames {
			key := ""
			if desc.IsPrimaryKeyColumn(col) {
				key = " PK"
			}
			fmt.Fprintf(w, "        %s %s%s\n", mermaidType(columns[col]), mermaidID(col), key)
		}
		fmt.Fprintln(w, "    }")
	}
	return nil
}

func sortedTables(models map[string]*model.Descriptor) []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// mermaidID converts a catalog identifier to a Mermaid-safe node ID.
func mermaidID(name string) string {
	return strings.NewReplacer(".", "_", " ", "_").Replace(name)
}

// mermaidType strips characters Mermaid cannot render in type positions,
// e.g. "STRING(MAX)" → "STRING".
func mermaidType(typ string) string {
	if i := strings.IndexAny(typ, "(<"); i >= 0 {
		return typ[:i]
	}
	return typ
}
