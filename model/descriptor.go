// Package model synthesizes runtime table descriptors from compiled catalog
// metadata. A descriptor is a read-only view of one table: its name, column
// schema, and primary-key column ordering. Descriptors are plain data keyed
// by table name; code that needs to know "which table" dispatches on the
// name, not on a distinct type per table.
package model

// Descriptor is the per-table handle produced by Synthesize.
type Descriptor struct {
	table      string
	columns    map[string]string
	primaryKey []string
}

// Table returns the table name.
func (d *Descriptor) Table() string {
	return d.table
}

// Schema returns the table's column name → type mapping. The returned map is
// a copy; mutating it does not affect the descriptor.
func (d *Descriptor) Schema() map[string]string {
	cols := make(map[string]string, len(d.columns))
	for name, typ := range d.columns {
		cols[name] = typ
	}
	return cols
}

// PrimaryIndexKeys returns the primary-key columns in key order.
func (d *Descriptor) PrimaryIndexKeys() []string {
	keys := make([]string, len(d.primaryKey))
	copy(keys, d.primaryKey)
	return keys
}

// HasColumn reports whether the table has a column with the given name.
func (d *Descriptor) HasColumn(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// ColumnType returns the type of the named column, if present.
func (d *Descriptor) ColumnType(name string) (string, bool) {
	typ, ok := d.columns[name]
	return typ, ok
}

// IsPrimaryKeyColumn reports whether name is part of the primary key.
func (d *Descriptor) IsPrimaryKeyColumn(name string) bool {
	for _, k := range d.primaryKey {
		if k == name {
			return true
		}
	}
	return false
}
