package dictionary

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrTableNotFound is returned when a table is not part of the dictionary.
	ErrTableNotFound = errors.New("table not found")

	// ErrInvalidTable is returned when a table definition is inconsistent.
	ErrInvalidTable = errors.New("invalid table definition")
)

// Lookup is the read side of the dictionary consumed by the query engine.
type Lookup interface {
	LookupTable(name string) (*Table, error)
}

// Registry stores table metadata for use by the query engine.
// Lookups are case-insensitive on the table name.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[string]*Table),
	}
}

// Register validates and adds tables, replacing same-named entries.
func (r *Registry) Register(tables ...Table) error {
	prepared, err := prepare(tables)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range prepared {
		r.tables[k] = t
	}
	return nil
}

// Replace swaps the whole table set. Either all tables are installed or none.
func (r *Registry) Replace(tables []Table) error {
	prepared, err := prepare(tables)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.tables = prepared
	r.mu.Unlock()
	return nil
}

// LookupTable retrieves a table by name.
func (r *Registry) LookupTable(name string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[fold(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

// Tables returns the registered table names, sorted.
func (r *Registry) Tables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tables))
	for _, t := range r.tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// prepare validates tables and returns indexed copies keyed by folded name.
// Registered tables are never mutated afterwards, so readers can share them.
func prepare(tables []Table) (map[string]*Table, error) {
	out := make(map[string]*Table, len(tables))
	for i := range tables {
		t := tables[i]
		if err := validate(&t); err != nil {
			return nil, err
		}
		t.Columns = append([]Column(nil), t.Columns...)
		t.buildIndex()
		out[fold(t.Name)] = &t
	}
	return out, nil
}

func validate(t *Table) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: table name is empty", ErrInvalidTable)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: table %s has no columns", ErrInvalidTable, t.Name)
	}

	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: table %s has a column without name", ErrInvalidTable, t.Name)
		}
		k := fold(c.Name)
		if seen[k] {
			return fmt.Errorf("%w: table %s declares column %s twice", ErrInvalidTable, t.Name, c.Name)
		}
		seen[k] = true
	}

	if t.KeyColumn != "" {
		key, ok := t.Column(t.KeyColumn)
		if !ok {
			return fmt.Errorf("%w: key column %s not found in table %s", ErrInvalidTable, t.KeyColumn, t.Name)
		}
		if key.IsVirtual() {
			return fmt.Errorf("%w: key column %s of table %s is virtual", ErrInvalidTable, t.KeyColumn, t.Name)
		}
		t.KeyColumn = key.Name
	}
	return nil
}
