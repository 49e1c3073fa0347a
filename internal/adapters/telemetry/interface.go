// Package telemetry records query engine metrics and traces.
package telemetry

import (
	"context"
	"time"
)

// Telemetry defines the telemetry adapter interface.
type Telemetry interface {
	// RecordQuery records one terminal query operation.
	RecordQuery(ctx context.Context, info QueryInfo)

	// RecordError records a failed operation.
	RecordError(ctx context.Context, info ErrorInfo)

	// RecordConnection records a connection event.
	RecordConnection(ctx context.Context, info ConnectionInfo)

	// Flush flushes any buffered telemetry data.
	Flush(ctx context.Context) error

	// Close closes the telemetry adapter.
	Close(ctx context.Context) error
}

// QueryInfo describes one executed query.
type QueryInfo struct {
	// Table is the dictionary table the query is bound to.
	Table string

	// Operation is the terminal operation (list, first, count, ...).
	Operation string

	// SQL is the executed statement.
	SQL string

	// Duration is how long the query took.
	Duration time.Duration

	// Success indicates if the query succeeded.
	Success bool

	// Rows is the number of rows materialized, -1 when unknown.
	Rows int64
}

// ErrorInfo describes a failed operation.
type ErrorInfo struct {
	Error     error
	Table     string
	Operation string
	SQL       string
}

// ConnectionInfo describes a connection event.
type ConnectionInfo struct {
	// Event is the event type (connect, disconnect).
	Event string

	// Provider is the database provider.
	Provider string

	Duration time.Duration
	Success  bool
}

// Config holds telemetry configuration.
type Config struct {
	// Type is the telemetry type (noop, log, metrics, trace).
	Type string

	// ServiceName tags spans and log records.
	ServiceName string
}
