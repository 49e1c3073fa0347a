// Package record implements the in-memory rows produced by queries.
package record

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/satishbabariya/dictquery/dictionary"
)

// NoID is the key value reported when no record matched.
const NoID int64 = -1

var (
	// ErrUnknownColumn is returned when a column is not part of the record's table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNoResolver is returned when a lazy virtual column is read from a
	// record that was built without a resolver.
	ErrNoResolver = errors.New("virtual column has no resolver")
)

// State is the resolution state of a virtual column on a record.
type State int

const (
	// Unresolved means the value has not been fetched yet.
	Unresolved State = iota
	// Resolved means Value holds the computed value.
	Resolved
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// VirtualValue is the tagged state of one virtual column.
type VirtualValue struct {
	State State
	Value interface{}
}

// Resolver computes the value of a lazy virtual column for one record.
type Resolver interface {
	ResolveVirtual(ctx context.Context, rec *Record, column string) (interface{}, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, rec *Record, column string) (interface{}, error)

// ResolveVirtual calls f.
func (f ResolverFunc) ResolveVirtual(ctx context.Context, rec *Record, column string) (interface{}, error) {
	return f(ctx, rec, column)
}

// Record is one materialized row of a dictionary table.
type Record struct {
	table    *dictionary.Table
	resolver Resolver

	mu      sync.Mutex
	values  map[string]interface{}
	virtual map[string]VirtualValue
}

// New creates an empty record. Every virtual column of the table starts
// Unresolved.
func New(table *dictionary.Table, resolver Resolver) *Record {
	r := &Record{
		table:    table,
		resolver: resolver,
		values:   make(map[string]interface{}, len(table.Columns)),
		virtual:  make(map[string]VirtualValue),
	}
	for _, c := range table.VirtualColumns() {
		r.virtual[c.Name] = VirtualValue{State: Unresolved}
	}
	return r
}

// Table returns the table descriptor the record belongs to.
func (r *Record) Table() *dictionary.Table {
	return r.table
}

// TableName returns the record's table name.
func (r *Record) TableName() string {
	return r.table.Name
}

// Set stores a column value. Setting a virtual column resolves it.
func (r *Record) Set(column string, value interface{}) {
	value = normalize(value)
	name, col := r.canonical(column)

	r.mu.Lock()
	defer r.mu.Unlock()
	if col != nil && col.IsVirtual() {
		r.virtual[name] = VirtualValue{State: Resolved, Value: value}
		return
	}
	r.values[name] = value
}

// ID returns the key column value, or NoID when the table has no single
// key or the value is absent.
func (r *Record) ID() int64 {
	if r.table.KeyColumn == "" {
		return NoID
	}
	v, ok := r.Value(r.table.KeyColumn)
	if !ok || v == nil {
		return NoID
	}
	id, err := AsInt64(v)
	if err != nil {
		return NoID
	}
	return id
}

// Value returns a loaded value without touching the database. Unresolved
// virtual columns report false.
func (r *Record) Value(column string) (interface{}, bool) {
	name, col := r.canonical(column)

	r.mu.Lock()
	defer r.mu.Unlock()
	if col != nil && col.IsVirtual() {
		vv := r.virtual[name]
		return vv.Value, vv.State == Resolved
	}
	v, ok := r.values[name]
	return v, ok
}

// Virtual returns the state of a virtual column.
func (r *Record) Virtual(column string) (VirtualValue, bool) {
	name, col := r.canonical(column)
	if col == nil || !col.IsVirtual() {
		return VirtualValue{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.virtual[name], true
}

// IsResolved reports whether column has a value loaded on the record.
func (r *Record) IsResolved(column string) bool {
	_, ok := r.Value(column)
	return ok
}

// Get returns the column value. An unresolved virtual column is fetched
// through the resolver on first read and memoized.
func (r *Record) Get(ctx context.Context, column string) (interface{}, error) {
	name, col := r.canonical(column)
	if col == nil {
		if v, ok := r.Value(name); ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.table.Name, column)
	}
	if !col.IsVirtual() {
		v, _ := r.Value(name)
		return v, nil
	}

	if v, ok := r.Value(name); ok {
		return v, nil
	}
	if r.resolver == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoResolver, r.table.Name, name)
	}

	v, err := r.resolver.ResolveVirtual(ctx, r, name)
	if err != nil {
		return nil, err
	}
	r.Set(name, v)
	return normalize(v), nil
}

// Int returns column as int64. NULL reads as 0.
func (r *Record) Int(ctx context.Context, column string) (int64, error) {
	v, err := r.Get(ctx, column)
	if err != nil || v == nil {
		return 0, err
	}
	return AsInt64(v)
}

// Float returns column as float64. NULL reads as 0.
func (r *Record) Float(ctx context.Context, column string) (float64, error) {
	v, err := r.Get(ctx, column)
	if err != nil || v == nil {
		return 0, err
	}
	return AsFloat64(v)
}

// Decimal returns column as a decimal. NULL reads as nil.
func (r *Record) Decimal(ctx context.Context, column string) (*apd.Decimal, error) {
	v, err := r.Get(ctx, column)
	if err != nil || v == nil {
		return nil, err
	}
	return AsDecimal(v)
}

// String returns column as text. NULL reads as "".
func (r *Record) String(ctx context.Context, column string) (string, error) {
	v, err := r.Get(ctx, column)
	if err != nil {
		return "", err
	}
	return AsString(v), nil
}

// Bool returns column as bool. NULL reads as false.
func (r *Record) Bool(ctx context.Context, column string) (bool, error) {
	v, err := r.Get(ctx, column)
	if err != nil || v == nil {
		return false, err
	}
	return AsBool(v)
}

// Time returns column as time.Time. NULL reads as the zero time.
func (r *Record) Time(ctx context.Context, column string) (time.Time, error) {
	v, err := r.Get(ctx, column)
	if err != nil || v == nil {
		return time.Time{}, err
	}
	return AsTime(v)
}

// Map returns the loaded values keyed by column name. Unresolved virtual
// columns are omitted.
func (r *Record) Map() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]interface{}, len(r.values)+len(r.virtual))
	for k, v := range r.values {
		out[k] = v
	}
	for k, vv := range r.virtual {
		if vv.State == Resolved {
			out[k] = vv.Value
		}
	}
	return out
}

// canonical maps column to its declared spelling.
func (r *Record) canonical(column string) (string, *dictionary.Column) {
	if col, ok := r.table.Column(column); ok {
		return col.Name, col
	}
	return column, nil
}
