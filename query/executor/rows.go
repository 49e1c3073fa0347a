package executor

import (
	"database/sql"
	"fmt"
)

// Rows scans *sql.Rows positionally. Byte slices are returned as strings.
type Rows struct {
	rows    *sql.Rows
	columns []string
	closed  bool
}

// Columns returns the result column names.
func (r *Rows) Columns() []string {
	return r.columns
}

// Next advances to the next row.
func (r *Rows) Next() bool {
	if r.closed {
		return false
	}
	return r.rows.Next()
}

// Values scans the current row.
func (r *Rows) Values() ([]interface{}, error) {
	values := make([]interface{}, len(r.columns))
	valuePtrs := make([]interface{}, len(r.columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := r.rows.Scan(valuePtrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}

// Err returns the iteration error, if any.
func (r *Rows) Err() error {
	return r.rows.Err()
}

// Close releases the rows. It is safe to call more than once.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.rows.Close()
}
