package query

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks query configuration errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDatabase marks failures while generating or executing SQL.
	ErrDatabase = errors.New("database error")

	// ErrTooManyRows is returned by the *Only terminals when more than one
	// row matches.
	ErrTooManyRows = errors.New("more than one record matched")

	// ErrNoAggregateFunction is returned by Aggregate without a function.
	ErrNoAggregateFunction = fmt.Errorf("%w: no aggregate function", ErrInvalidArgument)

	// ErrNoExpression is returned by Aggregate without an expression.
	ErrNoExpression = fmt.Errorf("%w: no aggregate expression", ErrInvalidArgument)

	// ErrNoKeyColumn is returned for key based operations on tables
	// without a single key column.
	ErrNoKeyColumn = errors.New("table has no single key column")

	// ErrStreamConsumed is yielded when a Stream is ranged over twice.
	ErrStreamConsumed = errors.New("stream already consumed")

	// ErrNoMoreRecords is returned by Iterator.Next past the last record.
	ErrNoMoreRecords = errors.New("no more records")
)

// ConfigError reports an invalid query configuration.
type ConfigError struct {
	Op    string
	Table string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Table, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is matches ErrInvalidArgument in addition to the wrapped cause.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// DBError reports a failure generating or executing a statement.
type DBError struct {
	Op    string
	Table string
	SQL   string
	Args  []interface{}
	Cause error
}

func (e *DBError) Error() string {
	msg := fmt.Sprintf("%s on %s: %v", e.Op, e.Table, e.Cause)
	if e.SQL != "" {
		msg += " [sql: " + e.SQL + "]"
	}
	return msg
}

func (e *DBError) Unwrap() error {
	return e.Cause
}

// Is matches ErrDatabase in addition to the wrapped cause.
func (e *DBError) Is(target error) bool {
	return target == ErrDatabase
}

func configError(op, table string, cause error) error {
	return &ConfigError{Op: op, Table: table, Cause: cause}
}
