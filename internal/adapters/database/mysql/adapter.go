// Package mysql implements MySQL database adapter.
package mysql

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/pool"
	"github.com/satishbabariya/dictquery/query/sqlgen"
)

// MySQLAdapter implements the database.Adapter interface for MySQL.
type MySQLAdapter struct {
	database.Base
	config database.Config
	dsn    string
}

// NewMySQLAdapter creates a new MySQL adapter.
func NewMySQLAdapter(config database.Config) (*MySQLAdapter, error) {
	dsn, err := DSN(config.URL)
	if err != nil {
		return nil, err
	}
	return &MySQLAdapter{
		config: config,
		dsn:    dsn,
	}, nil
}

// Connect establishes a connection to the MySQL database.
func (a *MySQLAdapter) Connect(ctx context.Context) error {
	p, err := pool.Open(ctx, "mysql", a.dsn, a.config.PoolConfig())
	if err != nil {
		return err
	}
	a.Attach(p)
	return nil
}

// Dialect returns the SQL dialect.
func (a *MySQLAdapter) Dialect() sqlgen.Dialect {
	return sqlgen.MySQL
}

// DSN converts a mysql:// URL into a driver DSN. Anything else is parsed
// as a driver DSN. Timestamps are always parsed into time.Time.
func DSN(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("mysql: connection URL is empty")
	}

	var cfg *mysql.Config
	if strings.HasPrefix(raw, "mysql://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("mysql: invalid URL: %w", err)
		}
		cfg = mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
		for k, v := range u.Query() {
			if len(v) > 0 {
				if cfg.Params == nil {
					cfg.Params = make(map[string]string)
				}
				cfg.Params[k] = v[0]
			}
		}
	} else {
		var err error
		cfg, err = mysql.ParseDSN(raw)
		if err != nil {
			return "", fmt.Errorf("mysql: invalid DSN: %w", err)
		}
	}

	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Ensure MySQLAdapter implements Adapter interface.
var _ database.Adapter = (*MySQLAdapter)(nil)
