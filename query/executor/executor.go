// Package executor runs generated statements against a database runner.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/satishbabariya/dictquery/internal/debug"
	"github.com/satishbabariya/dictquery/query/sqlgen"
)

// ErrNoRunner is returned when a statement has nowhere to run.
var ErrNoRunner = errors.New("no runner to execute statement")

// Runner is anything statements can run on: an auto-commit adapter or a
// transaction.
type Runner interface {
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row
	Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Executor executes statements and scans their rows.
type Executor struct {
	logger *slog.Logger
}

// New creates an executor. A nil logger uses the debug logger.
func New(logger *slog.Logger) *Executor {
	return &Executor{logger: logger}
}

func (e *Executor) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return debug.Logger()
}

// Rows runs stmt and returns an open row scanner. The caller must close it.
func (e *Executor) Rows(ctx context.Context, r Runner, stmt sqlgen.Statement) (*Rows, error) {
	if r == nil {
		return nil, ErrNoRunner
	}
	e.log().DebugContext(ctx, "executing statement", "sql", stmt.SQL, "args", stmt.Args)

	rows, err := r.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	return &Rows{rows: rows, columns: columns}, nil
}

// All runs stmt and returns every row as positional values.
func (e *Executor) All(ctx context.Context, r Runner, stmt sqlgen.Statement) ([][]interface{}, error) {
	rows, err := e.Rows(ctx, r, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]interface{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Scalar runs stmt and returns the first column of the first row. No row
// and a NULL value both return nil.
func (e *Executor) Scalar(ctx context.Context, r Runner, stmt sqlgen.Statement) (interface{}, error) {
	rows, err := e.Rows(ctx, r, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	values, err := rows.Values()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("statement returned no columns")
	}
	return values[0], nil
}

// Exec runs a statement that returns no rows.
func (e *Executor) Exec(ctx context.Context, r Runner, stmt sqlgen.Statement) (sql.Result, error) {
	if r == nil {
		return nil, ErrNoRunner
	}
	e.log().DebugContext(ctx, "executing statement", "sql", stmt.SQL, "args", stmt.Args)
	return r.Execute(ctx, stmt.SQL, stmt.Args...)
}
