// Package pool manages the *sql.DB behind a database adapter.
package pool

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/satishbabariya/dictquery/internal/debug"
)

// Config holds connection pool configuration.
type Config struct {
	// MaxOpenConns is the maximum number of open connections (0 = unlimited).
	MaxOpenConns int
	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int
	// ConnMaxLifetime is the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum idle time of a connection.
	ConnMaxIdleTime time.Duration
	// ConnectTimeout bounds the initial ping.
	ConnectTimeout time.Duration
	// HealthCheckInterval is how often to ping the database, 0 disables it.
	HealthCheckInterval time.Duration
}

// DefaultConfig returns the pool settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:        25,
		MaxIdleConns:        5,
		ConnMaxLifetime:     30 * time.Minute,
		ConnMaxIdleTime:     10 * time.Minute,
		ConnectTimeout:      10 * time.Second,
		HealthCheckInterval: time.Minute,
	}
}

// Stats is a snapshot of pool usage.
type Stats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
	FailedHealthChecks int64
	LastHealthCheck    time.Time
}

// Pool owns a *sql.DB and its background health check.
type Pool struct {
	db     *sql.DB
	config Config

	mu              sync.RWMutex
	failedChecks    int64
	lastHealthCheck time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Open opens driverName, applies config and verifies the connection.
func Open(ctx context.Context, driverName, dataSourceName string, config Config) (*Pool, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	pingCtx := ctx
	if config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		db:     db,
		config: config,
		cancel: cancel,
	}
	if config.HealthCheckInterval > 0 {
		p.wg.Add(1)
		go p.healthCheckLoop(loopCtx)
	}

	debug.Debug("database pool opened", "driver", driverName, "max_open", config.MaxOpenConns)
	return p, nil
}

// DB returns the underlying *sql.DB.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Stats returns current pool statistics.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.db.Stats()
	return Stats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration,
		FailedHealthChecks: p.failedChecks,
		LastHealthCheck:    p.lastHealthCheck,
	}
}

// HealthCheck pings the database and records the outcome.
func (p *Pool) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)

	p.mu.Lock()
	p.lastHealthCheck = time.Now()
	if err != nil {
		p.failedChecks++
	}
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func (p *Pool) healthCheckLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := p.HealthCheck(checkCtx); err != nil {
				debug.Warn("database health check failed", "error", err)
			}
			cancel()
		}
	}
}

// Close stops the health check and closes the database.
func (p *Pool) Close() error {
	p.cancel()
	p.wg.Wait()
	return p.db.Close()
}
