// Package trx manages named database transactions.
//
// Queries address a transaction by name. The empty name means no
// transaction: statements run in auto-commit mode on the database itself.
package trx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/debug"
	"github.com/satishbabariya/dictquery/query/executor"
)

var (
	// ErrTrxNotFound is returned for names with no open transaction.
	ErrTrxNotFound = errors.New("transaction not found")

	// ErrTrxExists is returned when a name is already in use.
	ErrTrxExists = errors.New("transaction already exists")
)

// Database is what the manager needs from an adapter.
type Database interface {
	executor.Runner
	BeginTx(ctx context.Context, opts *sql.TxOptions) (database.Transaction, error)
}

// IsolationLevel represents transaction isolation levels
type IsolationLevel int

const (
	// Default uses the database default
	Default IsolationLevel = iota
	// ReadUncommitted allows dirty reads
	ReadUncommitted
	// ReadCommitted prevents dirty reads
	ReadCommitted
	// RepeatableRead prevents dirty reads and non-repeatable reads
	RepeatableRead
	// Serializable prevents dirty reads, non-repeatable reads, and phantom reads
	Serializable
)

// ToSQLIsolationLevel converts IsolationLevel to sql.IsolationLevel
func (level IsolationLevel) ToSQLIsolationLevel() sql.IsolationLevel {
	switch level {
	case ReadUncommitted:
		return sql.LevelReadUncommitted
	case ReadCommitted:
		return sql.LevelReadCommitted
	case RepeatableRead:
		return sql.LevelRepeatableRead
	case Serializable:
		return sql.LevelSerializable
	default:
		return sql.LevelDefault
	}
}

// NewTxOptions creates sql.TxOptions from isolation level
func NewTxOptions(isolation IsolationLevel, readOnly bool) *sql.TxOptions {
	return &sql.TxOptions{
		Isolation: isolation.ToSQLIsolationLevel(),
		ReadOnly:  readOnly,
	}
}

// Trx is one open named transaction.
type Trx struct {
	name    string
	tx      database.Transaction
	started time.Time
}

// Name returns the transaction name.
func (t *Trx) Name() string { return t.name }

// Started returns when the transaction began.
func (t *Trx) Started() time.Time { return t.started }

// Query executes a query within the transaction.
func (t *Trx) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return t.tx.Query(ctx, query, args...)
}

// QueryRow executes a single-row query within the transaction.
func (t *Trx) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRow(ctx, query, args...)
}

// Execute executes a statement within the transaction.
func (t *Trx) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.Execute(ctx, query, args...)
}

// Manager keeps the open transactions by name.
type Manager struct {
	db Database

	mu   sync.Mutex
	open map[string]*Trx
}

// NewManager creates a manager for db.
func NewManager(db Database) *Manager {
	return &Manager{
		db:   db,
		open: make(map[string]*Trx),
	}
}

// Begin opens a transaction under name. opts may be nil.
func (m *Manager) Begin(ctx context.Context, name string, opts *sql.TxOptions) (*Trx, error) {
	if name == "" {
		return nil, fmt.Errorf("transaction name is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.open[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrTrxExists, name)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	t := &Trx{name: name, tx: tx, started: time.Now()}
	m.open[name] = t

	debug.Debug("transaction started", "trx", name)
	return t, nil
}

// Start opens a transaction under a generated name beginning with prefix.
func (m *Manager) Start(ctx context.Context, prefix string, opts *sql.TxOptions) (*Trx, error) {
	if prefix == "" {
		prefix = "Trx"
	}
	return m.Begin(ctx, prefix+"_"+uuid.NewString(), opts)
}

// Get returns the open transaction called name.
func (m *Manager) Get(name string) (*Trx, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.open[name]
	return t, ok
}

// Runner returns where statements for name run: the database for the
// empty name, otherwise the open transaction.
func (m *Manager) Runner(name string) (executor.Runner, error) {
	if name == "" {
		return m.db, nil
	}
	t, ok := m.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTrxNotFound, name)
	}
	return t, nil
}

// Commit commits and forgets the transaction called name.
func (m *Manager) Commit(name string) error {
	t, err := m.take(name)
	if err != nil {
		return err
	}
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction %s: %w", name, err)
	}
	debug.Debug("transaction committed", "trx", name, "duration", time.Since(t.started))
	return nil
}

// Rollback rolls back and forgets the transaction called name.
func (m *Manager) Rollback(name string) error {
	t, err := m.take(name)
	if err != nil {
		return err
	}
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to roll back transaction %s: %w", name, err)
	}
	debug.Debug("transaction rolled back", "trx", name, "duration", time.Since(t.started))
	return nil
}

// Run executes fn inside a new transaction. The transaction is rolled back
// when fn returns an error or panics and committed otherwise.
func (m *Manager) Run(ctx context.Context, prefix string, fn func(trxName string) error) (err error) {
	t, err := m.Start(ctx, prefix, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = m.Rollback(t.name)
			panic(p)
		}
	}()

	if err := fn(t.name); err != nil {
		if rbErr := m.Rollback(t.name); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	return m.Commit(t.name)
}

// Names returns the open transaction names, sorted.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.open))
	for name := range m.open {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close rolls back every open transaction.
func (m *Manager) Close() error {
	var errs []error
	for _, name := range m.Names() {
		if err := m.Rollback(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) take(name string) (*Trx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.open[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTrxNotFound, name)
	}
	delete(m.open, name)
	return t, nil
}
