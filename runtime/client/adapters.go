package client

import (
	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/adapters/database/mysql"
	"github.com/satishbabariya/dictquery/internal/adapters/database/postgres"
	"github.com/satishbabariya/dictquery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/dictquery/query/sqlgen"
)

// NewAdapter creates the database adapter for cfg.Provider.
func NewAdapter(cfg database.Config) (database.Adapter, error) {
	dialect, err := sqlgen.ParseDialect(cfg.Provider)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case sqlgen.Postgres:
		return postgres.NewPostgresAdapter(cfg)
	case sqlgen.MySQL:
		return mysql.NewMySQLAdapter(cfg)
	default:
		return sqlite.NewSQLiteAdapter(cfg)
	}
}
