package migration

import (
	"errors"
	"testing"

	"github.com/modelforge/pgmodel/model"
	"github.com/modelforge/pgmodel/schema"
)

func usersDescriptor(t *testing.T) *model.Descriptor {
	t.Helper()
	models, err := model.Synthesize(
		schema.TableSchema{
			"Users": {"id": "INT64", "name": "STRING(MAX)", "age": "INT64"},
		},
		schema.IndexMap{
			"Users": {schema.PrimaryKeyIndex: {Columns: []string{"id"}}},
		},
	)
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	return models["Users"]
}

func TestColumnUpdateValidate(t *testing.T) {
	desc := usersDescriptor(t)

	tests := []struct {
		name    string
		update  ColumnUpdate
		wantErr bool
	}{
		{
			name:   "add new column",
			update: ColumnUpdate{TableName: "Users", ColumnName: "email", ColumnType: "STRING(MAX)"},
		},
		{
			name:   "alter size within type family",
			update: ColumnUpdate{TableName: "Users", ColumnName: "name", ColumnType: "STRING(1024)"},
		},
		{
			name:   "drop existing column",
			update: ColumnUpdate{TableName: "Users", ColumnName: "age", Drop: true},
		},
		{
			name:    "alter across type families",
			update:  ColumnUpdate{TableName: "Users", ColumnName: "name", ColumnType: "INT64"},
			wantErr: true,
		},
		{
			name:    "alter primary key column",
			update:  ColumnUpdate{TableName: "Users", ColumnName: "id", ColumnType: "INT64"},
			wantErr: true,
		},
		{
			name:    "drop primary key column",
			update:  ColumnUpdate{TableName: "Users", ColumnName: "id", Drop: true},
			wantErr: true,
		},
		{
			name:    "drop unknown column",
			update:  ColumnUpdate{TableName: "Users", ColumnName: "missing", Drop: true},
			wantErr: true,
		},
		{
			name:    "missing column type",
			update:  ColumnUpdate{TableName: "Users", ColumnName: "email"},
			wantErr: true,
		},
		{
			name:    "missing column name",
			update:  ColumnUpdate{TableName: "Users", ColumnType: "INT64"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate(desc)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSchemaChange) {
					t.Errorf("Validate() error = %v, want ErrInvalidSchemaChange", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestColumnUpdateDDL(t *testing.T) {
	desc := usersDescriptor(t)

	tests := []struct {
		name   string
		update ColumnUpdate
		want   string
	}{
		{
			name:   "add",
			update: ColumnUpdate{TableName: "Users", ColumnName: "email", ColumnType: "STRING(MAX)"},
			want:   "ALTER TABLE Users ADD COLUMN email STRING(MAX)",
		},
		{
			name:   "add not null",
			update: ColumnUpdate{TableName: "Users", ColumnName: "email", ColumnType: "STRING(MAX)", NotNull: true},
			want:   "ALTER TABLE Users ADD COLUMN email STRING(MAX) NOT NULL",
		},
		{
			name:   "alter existing",
			update: ColumnUpdate{TableName: "Users", ColumnName: "name", ColumnType: "STRING(1024)"},
			want:   "ALTER TABLE Users ALTER COLUMN name STRING(1024)",
		},
		{
			name:   "drop",
			update: ColumnUpdate{TableName: "Users", ColumnName: "age", Drop: true},
			want:   "ALTER TABLE Users DROP COLUMN age",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.update.DDL(desc)
			if err != nil {
				t.Fatalf("DDL() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DDL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateTableUpdateValidate(t *testing.T) {
	valid := CreateTableUpdate{
		TableName: "Orders",
		Columns: []ColumnDef{
			{Name: "id", Type: "INT64", NotNull: true},
			{Name: "total", Type: "FLOAT64"},
		},
		PrimaryKeys: []string{"id"},
	}
	if err := valid.Validate(nil); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
	if err := valid.Validate(usersDescriptor(t)); !errors.Is(err, ErrInvalidSchemaChange) {
		t.Errorf("Validate(desc) error = %v, want ErrInvalidSchemaChange", err)
	}

	tests := []struct {
		name   string
		update CreateTableUpdate
	}{
		{"no columns", CreateTableUpdate{TableName: "T", PrimaryKeys: []string{"id"}}},
		{"no table name", CreateTableUpdate{Columns: []ColumnDef{{Name: "id", Type: "INT64"}}, PrimaryKeys: []string{"id"}}},
		{"duplicate column", CreateTableUpdate{
			TableName:   "T",
			Columns:     []ColumnDef{{Name: "id", Type: "INT64"}, {Name: "id", Type: "INT64"}},
			PrimaryKeys: []string{"id"},
		}},
		{"no primary key", CreateTableUpdate{
			TableName: "T",
			Columns:   []ColumnDef{{Name: "id", Type: "INT64"}},
		}},
		{"primary key not a column", CreateTableUpdate{
			TableName:   "T",
			Columns:     []ColumnDef{{Name: "id", Type: "INT64"}},
			PrimaryKeys: []string{"missing"},
		}},
		{"column without type", CreateTableUpdate{
			TableName:   "T",
			Columns:     []ColumnDef{{Name: "id"}},
			PrimaryKeys: []string{"id"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.update.Validate(nil); !errors.Is(err, ErrInvalidSchemaChange) {
				t.Errorf("Validate() error = %v, want ErrInvalidSchemaChange", err)
			}
		})
	}
}

func TestCreateTableUpdateDDL(t *testing.T) {
	update := CreateTableUpdate{
		TableName: "Orders",
		Columns: []ColumnDef{
			{Name: "user_id", Type: "INT64", NotNull: true},
			{Name: "order_id", Type: "INT64", NotNull: true},
			{Name: "total", Type: "FLOAT64"},
		},
		PrimaryKeys: []string{"user_id", "order_id"},
	}

	got, err := update.DDL(nil)
	if err != nil {
		t.Fatalf("DDL() error: %v", err)
	}
	want := "CREATE TABLE Orders (\n" +
		"  user_id INT64 NOT NULL,\n" +
		"  order_id INT64 NOT NULL,\n" +
		"  total FLOAT64\n" +
		") PRIMARY KEY (user_id, order_id)"
	if got != want {
		t.Errorf("DDL() = %q, want %q", got, want)
	}
}

func TestIndexUpdateValidate(t *testing.T) {
	desc := usersDescriptor(t)

	tests := []struct {
		name    string
		update  IndexUpdate
		wantErr bool
	}{
		{
			name:   "create index on existing columns",
			update: IndexUpdate{TableName: "Users", IndexName: "ByName", Columns: []string{"name"}},
		},
		{
			name:   "drop index",
			update: IndexUpdate{TableName: "Users", IndexName: "ByName", Drop: true},
		},
		{
			name:    "unknown column",
			update:  IndexUpdate{TableName: "Users", IndexName: "ByEmail", Columns: []string{"email"}},
			wantErr: true,
		},
		{
			name:    "reserved primary key name",
			update:  IndexUpdate{TableName: "Users", IndexName: schema.PrimaryKeyIndex, Columns: []string{"name"}},
			wantErr: true,
		},
		{
			name:    "no columns",
			update:  IndexUpdate{TableName: "Users", IndexName: "Empty"},
			wantErr: true,
		},
		{
			name:    "no index name",
			update:  IndexUpdate{TableName: "Users", Columns: []string{"name"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate(desc)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSchemaChange) {
					t.Errorf("Validate() error = %v, want ErrInvalidSchemaChange", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestIndexUpdateDDL(t *testing.T) {
	desc := usersDescriptor(t)

	tests := []struct {
		name   string
		update IndexUpdate
		want   string
	}{
		{
			name:   "create",
			update: IndexUpdate{TableName: "Users", IndexName: "ByName", Columns: []string{"name", "age"}},
			want:   "CREATE INDEX ByName ON Users (name, age)",
		},
		{
			name:   "create unique",
			update: IndexUpdate{TableName: "Users", IndexName: "ByName", Columns: []string{"name"}, Unique: true},
			want:   "CREATE UNIQUE INDEX ByName ON Users (name)",
		},
		{
			name:   "drop",
			update: IndexUpdate{TableName: "Users", IndexName: "ByName", Drop: true},
			want:   "DROP INDEX ByName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.update.DDL(desc)
			if err != nil {
				t.Fatalf("DDL() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DDL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Users", "Users"},
		{"user_id", "user_id"},
		{"order", "`order`"},
		{"Table", "`Table`"},
		{"has space", "`has space`"},
		{"0start", "`0start`"},
		{"", "``"},
	}
	for _, tt := range tests {
		if got := quoteIdent(tt.in); got != tt.want {
			t.Errorf("quoteIdent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTypeFamily(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"STRING(MAX)", "STRING"},
		{"STRING(1024)", "STRING"},
		{"INT64", "INT64"},
		{"ARRAY<STRING(MAX)>", "ARRAY<STRING"},
	}
	for _, tt := range tests {
		if got := typeFamily(tt.in); got != tt.want {
			t.Errorf("typeFamily(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDDLFailsOnInvalidChange(t *testing.T) {
	desc := usersDescriptor(t)
	update := ColumnUpdate{TableName: "Users", ColumnName: "id", Drop: true}
	if _, err := update.DDL(desc); !errors.Is(err, ErrInvalidSchemaChange) {
		t.Errorf("DDL() error = %v, want ErrInvalidSchemaChange", err)
	}
}
