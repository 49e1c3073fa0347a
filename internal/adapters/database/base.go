package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/satishbabariya/dictquery/internal/pool"
)

// Base implements the connection-independent part of Adapter on top of a
// pool. Provider adapters embed it and supply Connect and Dialect.
type Base struct {
	mu   sync.RWMutex
	pool *pool.Pool
}

// Attach installs an opened pool.
func (b *Base) Attach(p *pool.Pool) {
	b.mu.Lock()
	b.pool = p
	b.mu.Unlock()
}

// Pool returns the attached pool, or nil before Connect.
func (b *Base) Pool() *pool.Pool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pool
}

func (b *Base) db() (*sql.DB, error) {
	p := b.Pool()
	if p == nil {
		return nil, ErrNotConnected
	}
	return p.DB(), nil
}

// Disconnect closes the pool.
func (b *Base) Disconnect(ctx context.Context) error {
	b.mu.Lock()
	p := b.pool
	b.pool = nil
	b.mu.Unlock()

	if p != nil {
		return p.Close()
	}
	return nil
}

// Execute executes a query without returning rows.
func (b *Base) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	db, err := b.db()
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (b *Base) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	db, err := b.db()
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns a single row. It returns nil when
// the adapter is not connected.
func (b *Base) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	db, err := b.db()
	if err != nil {
		return nil
	}
	return db.QueryRowContext(ctx, query, args...)
}

// Begin starts a new transaction.
func (b *Base) Begin(ctx context.Context) (Transaction, error) {
	return b.BeginTx(ctx, nil)
}

// BeginTx starts a new transaction with options.
func (b *Base) BeginTx(ctx context.Context, opts *sql.TxOptions) (Transaction, error) {
	db, err := b.db()
	if err != nil {
		return nil, err
	}
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Ping checks if the database connection is alive.
func (b *Base) Ping(ctx context.Context) error {
	p := b.Pool()
	if p == nil {
		return ErrNotConnected
	}
	return p.HealthCheck(ctx)
}

// Tx implements Transaction over *sql.Tx.
type Tx struct {
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Execute executes a query within the transaction.
func (t *Tx) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

// Query executes a query within the transaction.
func (t *Tx) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, query, args...)
}

// QueryRow executes a single-row query within the transaction.
func (t *Tx) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

var _ Transaction = (*Tx)(nil)
