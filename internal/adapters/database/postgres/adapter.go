// Package postgres implements PostgreSQL database adapter.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq" // PostgreSQL driver

	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/pool"
	"github.com/satishbabariya/dictquery/query/sqlgen"
)

// PostgresAdapter implements the database.Adapter interface for PostgreSQL.
type PostgresAdapter struct {
	database.Base
	config database.Config
}

// NewPostgresAdapter creates a new PostgreSQL adapter.
func NewPostgresAdapter(config database.Config) (*PostgresAdapter, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("postgres: connection URL is empty")
	}
	return &PostgresAdapter{
		config: config,
	}, nil
}

// Connect establishes a connection to the PostgreSQL database.
func (a *PostgresAdapter) Connect(ctx context.Context) error {
	p, err := pool.Open(ctx, "postgres", a.config.URL, a.config.PoolConfig())
	if err != nil {
		return err
	}
	a.Attach(p)
	return nil
}

// Dialect returns the SQL dialect.
func (a *PostgresAdapter) Dialect() sqlgen.Dialect {
	return sqlgen.Postgres
}

// ErrorCode returns the SQLSTATE of a PostgreSQL error, or "".
func ErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// Ensure PostgresAdapter implements Adapter interface.
var _ database.Adapter = (*PostgresAdapter)(nil)
