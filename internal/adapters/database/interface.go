// Package database defines database adapter interfaces.
package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/satishbabariya/dictquery/internal/pool"
	"github.com/satishbabariya/dictquery/query/sqlgen"
)

// ErrNotConnected is returned by adapters used before Connect.
var ErrNotConnected = errors.New("database not connected")

// Adapter defines the database adapter interface.
type Adapter interface {
	// Connect establishes a database connection.
	Connect(ctx context.Context) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// Execute executes a SQL statement.
	Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

	// QueryRow executes a query that returns a single row.
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row

	// Begin starts a transaction.
	Begin(ctx context.Context) (Transaction, error)

	// BeginTx starts a transaction with options.
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Transaction, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// Dialect returns the SQL dialect.
	Dialect() sqlgen.Dialect
}

// Transaction defines the transaction interface.
type Transaction interface {
	// Commit commits the transaction.
	Commit() error

	// Rollback rolls back the transaction.
	Rollback() error

	// Execute executes a statement within the transaction.
	Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// Query executes a query within the transaction.
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

	// QueryRow executes a single-row query within the transaction.
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

// PoolConfig derives pool settings from c, falling back to pool defaults.
func (c Config) PoolConfig() pool.Config {
	pc := pool.DefaultConfig()
	if c.MaxConnections > 0 {
		pc.MaxOpenConns = c.MaxConnections
		pc.MaxIdleConns = max(c.MaxConnections/2, 1)
	}
	if c.MaxIdleTime > 0 {
		pc.ConnMaxIdleTime = time.Duration(c.MaxIdleTime) * time.Second
	}
	if c.ConnectTimeout > 0 {
		pc.ConnectTimeout = time.Duration(c.ConnectTimeout) * time.Second
	}
	return pc
}
