// Package sqlite implements SQLite database adapter.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/pool"
	"github.com/satishbabariya/dictquery/query/sqlgen"
)

// SQLiteAdapter implements the database.Adapter interface for SQLite.
type SQLiteAdapter struct {
	database.Base
	config database.Config
}

// NewSQLiteAdapter creates a new SQLite adapter.
func NewSQLiteAdapter(config database.Config) (*SQLiteAdapter, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("sqlite: database path is empty")
	}
	return &SQLiteAdapter{
		config: config,
	}, nil
}

// Connect opens the database file.
func (a *SQLiteAdapter) Connect(ctx context.Context) error {
	cfg := a.config.PoolConfig()
	// A single connection serializes writers and keeps in-memory databases shared.
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	cfg.ConnMaxLifetime = 0
	cfg.ConnMaxIdleTime = 0

	p, err := pool.Open(ctx, "sqlite3", dataSource(a.config.URL), cfg)
	if err != nil {
		return err
	}

	// Foreign keys are disabled by default in SQLite
	if _, err := p.DB().ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		p.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	a.Attach(p)
	return nil
}

// Dialect returns the SQL dialect.
func (a *SQLiteAdapter) Dialect() sqlgen.Dialect {
	return sqlgen.SQLite
}

// dataSource strips the URL schemes accepted in configuration.
func dataSource(url string) string {
	for _, prefix := range []string{"sqlite3://", "sqlite://", "file://"} {
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	return url
}

// Ensure SQLiteAdapter implements Adapter interface.
var _ database.Adapter = (*SQLiteAdapter)(nil)
