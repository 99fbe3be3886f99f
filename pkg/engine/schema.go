package engine

import (
	"encoding/json"
	"fmt"
)

// Schema represents the full set of tables known to the engine
type Schema struct {
	Tables []*Table `json:"tables"`
}

// Table represents a database table and its write-path metadata
type Table struct {
	Name      string   `json:"name"`       // entity name, e.g. "Singer"
	TableName string   `json:"table_name"` // SQL table, e.g. "singers"
	Fields    []*Field `json:"fields"`     // declaration order, stable

	// Parents lists the tables this one inherits from. A parent whose
	// concrete table differs from ours means a multi-table hierarchy.
	Parents []*Table `json:"parents,omitempty"`

	// Proxy points at the concrete table when this table is a proxy.
	// Nil for concrete tables.
	Proxy *Table `json:"-"`
}

// Field represents a table column
type Field struct {
	Name       string    `json:"name"`
	Column     string    `json:"column"`
	Type       FieldType `json:"field_type"`
	Nullable   bool      `json:"nullable"`
	Unique     bool      `json:"unique"`
	PrimaryKey bool      `json:"primary_key"`

	// Auto marks a key column the client must generate itself
	// because the backend has no server-side auto-increment.
	Auto bool `json:"auto,omitempty"`

	// Virtual marks computed fields that have no concrete column.
	Virtual bool `json:"virtual,omitempty"`

	// ManyToMany marks pure relation fields without a column.
	ManyToMany bool `json:"many_to_many,omitempty"`

	// Returning marks columns the database populates on write
	// (defaults, commit timestamps, server-generated keys).
	Returning bool `json:"returning,omitempty"`
}

// FieldType represents the type of a field and can be simple or complex
type FieldType struct {
	Kind  string      `json:"-"` // e.g. "Int64", "String", "Timestamp", "Array"
	Param interface{} `json:"-"` // e.g. inner type for Array
}

// Simple field type constants
var (
	FieldTypeInt64     = FieldType{Kind: "Int64"}
	FieldTypeString    = FieldType{Kind: "String"}
	FieldTypeBool      = FieldType{Kind: "Bool"}
	FieldTypeFloat     = FieldType{Kind: "Float"}
	FieldTypeTimestamp = FieldType{Kind: "Timestamp"}
	FieldTypeBytes     = FieldType{Kind: "Bytes"}
	FieldTypeJSON      = FieldType{Kind: "JSON"}
)

// UnmarshalJSON deserializes FieldType from JSON
// Can be: "Int64" (string) or {"Array": "String"} (object)
func (ft *FieldType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*ft = FieldType{Kind: s}
		return nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err == nil {
		if len(obj) != 1 {
			return fmt.Errorf("invalid FieldType object: expected 1 key, got %d", len(obj))
		}
		for key, value := range obj {
			*ft = FieldType{Kind: key, Param: value}
			return nil
		}
	}

	return fmt.Errorf("cannot unmarshal FieldType from %s", string(data))
}

// MarshalJSON serializes FieldType to JSON
func (ft FieldType) MarshalJSON() ([]byte, error) {
	if ft.Param == nil {
		return json.Marshal(ft.Kind)
	}
	obj := map[string]interface{}{ft.Kind: ft.Param}
	return json.Marshal(obj)
}

// String returns a string representation of the FieldType
func (ft FieldType) String() string {
	if ft.Param == nil {
		return ft.Kind
	}
	return fmt.Sprintf("%s(%v)", ft.Kind, ft.Param)
}

// Concrete reports whether the field maps to a real column that can
// appear in an INSERT statement.
func (f *Field) Concrete() bool {
	return !f.Virtual && !f.ManyToMany
}

// Table returns a table by entity name, or nil if not found
func (s *Schema) Table(name string) *Table {
	for _, table := range s.Tables {
		if table.Name == name {
			return table
		}
	}
	return nil
}

// ConcreteTable resolves proxy chains down to the concrete table
func (t *Table) ConcreteTable() *Table {
	c := t
	for c.Proxy != nil {
		c = c.Proxy
	}
	return c
}

// ConcreteFields returns the ordered list of insertable columns.
// Order matches declaration order; the bulk write path relies on it
// when zipping returned values back onto records.
func (t *Table) ConcreteFields() []*Field {
	fields := make([]*Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.Concrete() {
			fields = append(fields, f)
		}
	}
	return fields
}

// ReturningFields returns the ordered subset of columns the database
// reports back after a write
func (t *Table) ReturningFields() []*Field {
	var fields []*Field
	for _, f := range t.Fields {
		if f.Returning {
			fields = append(fields, f)
		}
	}
	return fields
}

// PrimaryKey returns the primary key field, or nil if none declared
func (t *Table) PrimaryKey() *Field {
	for _, f := range t.Fields {
		if f.PrimaryKey {
			return f
		}
	}
	return nil
}

// FieldByName returns a field by name, or nil if not found
func (t *Table) FieldByName(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// ParseSchemaJSON parses a JSON string into a Schema
func ParseSchemaJSON(jsonStr string) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal([]byte(jsonStr), &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// ToJSON converts a Schema to JSON string
func (s *Schema) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
