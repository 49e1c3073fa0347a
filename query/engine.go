// Package query builds, runs and materializes dictionary-driven record
// queries.
package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/satishbabariya/dictquery/dictionary"
	"github.com/satishbabariya/dictquery/internal/adapters/telemetry"
	"github.com/satishbabariya/dictquery/internal/debug"
	"github.com/satishbabariya/dictquery/query/executor"
	"github.com/satishbabariya/dictquery/query/sqlgen"
	"github.com/satishbabariya/dictquery/runtime/session"
)

// TrxProvider resolves a transaction name to the runner statements execute
// on. The empty name means auto-commit.
type TrxProvider interface {
	Runner(name string) (executor.Runner, error)
}

// Engine creates queries against one database.
type Engine struct {
	dict      dictionary.Lookup
	trx       TrxProvider
	gen       *sqlgen.Generator
	exec      *executor.Executor
	logger    *slog.Logger
	telemetry telemetry.Telemetry
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for generated statements.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTelemetry sets the telemetry sink for terminal operations.
func WithTelemetry(t telemetry.Telemetry) Option {
	return func(e *Engine) {
		e.telemetry = t
	}
}

// NewEngine creates an engine reading metadata from dict and running
// statements through trx.
func NewEngine(dict dictionary.Lookup, trx TrxProvider, dialect sqlgen.Dialect, opts ...Option) *Engine {
	e := &Engine{
		dict: dict,
		trx:  trx,
		gen:  sqlgen.NewGenerator(dialect),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = debug.Logger()
	}
	if e.telemetry == nil {
		e.telemetry = telemetry.NewNoopTelemetry()
	}
	e.exec = executor.New(e.logger)
	return e
}

// Dialect returns the SQL dialect the engine generates.
func (e *Engine) Dialect() sqlgen.Dialect {
	return e.gen.Dialect()
}

// Executor returns the statement executor shared by the engine's queries.
func (e *Engine) Executor() *executor.Executor {
	return e.exec
}

// NewQuery creates a query on table filtered by where. The session's
// client ids are read from ctx. trxName selects a named transaction, the
// empty name runs in auto-commit mode.
func (e *Engine) NewQuery(ctx context.Context, table, where, trxName string) (*Query, error) {
	t, err := e.dict.LookupTable(table)
	if err != nil {
		return nil, configError("new query", table, err)
	}
	return &Query{
		engine:          e,
		table:           t,
		where:           where,
		trxName:         trxName,
		clientIDs:       session.ClientIDs(ctx),
		noVirtualColumn: true,
	}, nil
}

func (e *Engine) runner(trxName string) (executor.Runner, error) {
	if e.trx == nil {
		return nil, executor.ErrNoRunner
	}
	return e.trx.Runner(trxName)
}

// observe reports one terminal operation to telemetry.
func (e *Engine) observe(ctx context.Context, op, table, sql string, started time.Time, rows int64, err error) {
	e.telemetry.RecordQuery(ctx, telemetry.QueryInfo{
		Table:     table,
		Operation: op,
		SQL:       sql,
		Duration:  time.Since(started),
		Success:   err == nil,
		Rows:      rows,
	})
	if err != nil {
		e.telemetry.RecordError(ctx, telemetry.ErrorInfo{
			Error:     err,
			Table:     table,
			Operation: op,
			SQL:       sql,
		})
		e.logger.DebugContext(ctx, "query failed", "op", op, "table", table, "error", err)
	}
}
