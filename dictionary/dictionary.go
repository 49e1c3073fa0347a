// Package dictionary holds the table and column metadata that drives query generation.
package dictionary

import (
	"strings"

	"golang.org/x/text/cases"
)

// Well-known column names with access-rule semantics.
const (
	// ColumnIsActive marks a table as supporting active-record filtering.
	ColumnIsActive = "IsActive"
	// ColumnClientID marks a table as tenant scoped.
	ColumnClientID = "AD_Client_ID"
)

// ColumnType is the dictionary reference type of a column.
type ColumnType string

const (
	TypeID       ColumnType = "id"
	TypeInteger  ColumnType = "integer"
	TypeNumber   ColumnType = "number"
	TypeAmount   ColumnType = "amount"
	TypeString   ColumnType = "string"
	TypeText     ColumnType = "text"
	TypeYesNo    ColumnType = "yesno"
	TypeDate     ColumnType = "date"
	TypeDateTime ColumnType = "datetime"
	TypeList     ColumnType = "list"
	// TypeTable, TypeTableDir and TypeSearch are lookup types. A lookup column
	// references another table either explicitly or by the <Table>_ID convention.
	TypeTable    ColumnType = "table"
	TypeTableDir ColumnType = "tabledir"
	TypeSearch   ColumnType = "search"
)

// IsLookup reports whether columns of this type reference another table.
func (t ColumnType) IsLookup() bool {
	switch t {
	case TypeTable, TypeTableDir, TypeSearch:
		return true
	}
	return false
}

// Column describes one column of a table.
type Column struct {
	Name string     `yaml:"name"`
	Type ColumnType `yaml:"type"`
	// References is the referenced table name for lookup columns.
	// Empty means the <Table>_ID naming convention applies.
	References string `yaml:"references,omitempty"`
	// VirtualSQL is the SQL expression of a computed column. Columns with a
	// non-empty expression are not stored and never selected as physical columns.
	VirtualSQL string `yaml:"virtual,omitempty"`
}

// IsVirtual reports whether the column is computed.
func (c Column) IsVirtual() bool {
	return strings.TrimSpace(c.VirtualSQL) != ""
}

// ReferencedTable returns the table a lookup column points to, or "".
func (c Column) ReferencedTable() string {
	if c.IsVirtual() {
		return ""
	}
	if c.References != "" {
		return c.References
	}
	if c.Type.IsLookup() && len(c.Name) > 3 && strings.EqualFold(c.Name[len(c.Name)-3:], "_ID") {
		return c.Name[:len(c.Name)-3]
	}
	return ""
}

// Table describes one table of the dictionary.
type Table struct {
	Name string `yaml:"name"`
	// KeyColumn is the single numeric primary key column, empty for
	// multi-key tables.
	KeyColumn string   `yaml:"key,omitempty"`
	Columns   []Column `yaml:"columns"`

	index map[string]int
}

// Column returns the named column, matched case-insensitively.
func (t *Table) Column(name string) (*Column, bool) {
	key := fold(name)
	if t.index == nil {
		for i := range t.Columns {
			if fold(t.Columns[i].Name) == key {
				return &t.Columns[i], true
			}
		}
		return nil, false
	}
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return &t.Columns[i], true
}

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// PhysicalColumns returns the stored columns in declaration order.
func (t *Table) PhysicalColumns() []Column {
	cols := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.IsVirtual() {
			cols = append(cols, c)
		}
	}
	return cols
}

// VirtualColumns returns the computed columns in declaration order.
func (t *Table) VirtualColumns() []Column {
	var cols []Column
	for _, c := range t.Columns {
		if c.IsVirtual() {
			cols = append(cols, c)
		}
	}
	return cols
}

// ActiveColumn returns the active-record column name, or "" if the table has none.
func (t *Table) ActiveColumn() string {
	if c, ok := t.Column(ColumnIsActive); ok && !c.IsVirtual() {
		return c.Name
	}
	return ""
}

// ClientColumn returns the tenant column name, or "" if the table has none.
func (t *Table) ClientColumn() string {
	if c, ok := t.Column(ColumnClientID); ok && !c.IsVirtual() {
		return c.Name
	}
	return ""
}

// ForeignKeysTo returns the columns of t that reference other's key column.
func (t *Table) ForeignKeysTo(other *Table) []Column {
	if other == nil || other.KeyColumn == "" {
		return nil
	}
	var fks []Column
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, t.KeyColumn) {
			continue
		}
		if ref := c.ReferencedTable(); ref != "" && fold(ref) == fold(other.Name) {
			fks = append(fks, c)
		}
	}
	return fks
}

// Qualify returns column prefixed with the table name.
func (t *Table) Qualify(column string) string {
	return t.Name + "." + column
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[fold(c.Name)] = i
	}
}

// fold normalizes identifiers for case-insensitive lookup.
func fold(s string) string {
	return cases.Fold().String(s)
}
