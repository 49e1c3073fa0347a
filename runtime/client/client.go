// Package client wires the dictionary, a database adapter, named
// transactions and the query engine into one handle.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/satishbabariya/dictquery/dictionary"
	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/adapters/telemetry"
	"github.com/satishbabariya/dictquery/internal/debug"
	"github.com/satishbabariya/dictquery/query"
	"github.com/satishbabariya/dictquery/query/executor"
	"github.com/satishbabariya/dictquery/runtime/trx"
	"github.com/satishbabariya/dictquery/selection"
)

// Config holds client configuration options.
type Config struct {
	// Database selects the provider and connection.
	Database database.Config

	// Adapter replaces the adapter built from Database.
	Adapter database.Adapter

	// Registry replaces the registry loaded from DictionaryFile.
	Registry *dictionary.Registry

	// DictionaryFile is loaded into the registry at creation.
	DictionaryFile string
	DictionaryFs   afero.Fs

	// WatchDictionary reloads DictionaryFile when it changes.
	WatchDictionary bool

	Telemetry telemetry.Telemetry
	Logger    *slog.Logger
}

// Option is a function that configures the client.
type Option func(*Config)

// WithDatabase sets the database connection.
func WithDatabase(cfg database.Config) Option {
	return func(c *Config) {
		c.Database = cfg
	}
}

// WithAdapter uses an existing adapter instead of creating one.
func WithAdapter(adapter database.Adapter) Option {
	return func(c *Config) {
		c.Adapter = adapter
	}
}

// WithRegistry uses an existing registry.
func WithRegistry(registry *dictionary.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithDictionaryFile loads the dictionary from path on fs.
func WithDictionaryFile(fs afero.Fs, path string) Option {
	return func(c *Config) {
		c.DictionaryFs = fs
		c.DictionaryFile = path
	}
}

// WithDictionaryWatch enables or disables dictionary hot reload. Only
// files on the OS filesystem can be watched.
func WithDictionaryWatch(enabled bool) Option {
	return func(c *Config) {
		c.WatchDictionary = enabled
	}
}

// WithTelemetry sets the telemetry adapter.
func WithTelemetry(t telemetry.Telemetry) Option {
	return func(c *Config) {
		c.Telemetry = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Client is the entry point for running dictionary queries.
type Client struct {
	config     *Config
	adapter    database.Adapter
	registry   *dictionary.Registry
	trx        *trx.Manager
	engine     *query.Engine
	selections *selection.Store
	telemetry  telemetry.Telemetry
	logger     *slog.Logger

	mu          sync.RWMutex
	middlewares []Middleware
	watcher     *dictionary.Watcher
	connected   bool
}

// New creates a client. The dictionary is loaded immediately; the
// database is not contacted until Connect.
func New(opts ...Option) (*Client, error) {
	config := &Config{}
	for _, opt := range opts {
		opt(config)
	}

	c := &Client{
		config:    config,
		registry:  config.Registry,
		telemetry: config.Telemetry,
		logger:    config.Logger,
	}
	if c.logger == nil {
		c.logger = debug.Logger()
	}
	if c.telemetry == nil {
		c.telemetry = telemetry.NewNoopTelemetry()
	}

	if c.registry == nil {
		c.registry = dictionary.NewRegistry()
	}
	if config.DictionaryFile != "" {
		fs := config.DictionaryFs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		if err := c.registry.LoadFile(fs, config.DictionaryFile); err != nil {
			return nil, err
		}
	}

	c.adapter = config.Adapter
	if c.adapter == nil {
		adapter, err := NewAdapter(config.Database)
		if err != nil {
			return nil, err
		}
		c.adapter = adapter
	}

	c.trx = trx.NewManager(c.adapter)
	c.engine = query.NewEngine(c.registry, c, c.adapter.Dialect(),
		query.WithLogger(c.logger),
		query.WithTelemetry(c.telemetry),
	)
	c.selections = selection.NewStore(c.adapter.Dialect(), c.engine.Executor())
	return c, nil
}

// Connect opens the database connection and starts the dictionary watcher
// when enabled.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	start := time.Now()
	err := c.adapter.Connect(ctx)
	c.telemetry.RecordConnection(ctx, telemetry.ConnectionInfo{
		Event:    "connect",
		Provider: string(c.adapter.Dialect()),
		Duration: time.Since(start),
		Success:  err == nil,
	})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	if c.config.WatchDictionary && c.config.DictionaryFile != "" {
		w, err := dictionary.NewWatcher(c.config.DictionaryFile, c.registry)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			c.adapter.Disconnect(ctx)
			return fmt.Errorf("failed to watch dictionary: %w", err)
		}
		c.watcher = w
	}

	c.connected = true
	c.logger.Debug("client connected", "provider", c.adapter.Dialect())
	return nil
}

// Close rolls back open transactions, stops the watcher and disconnects.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false

	var errs []error
	if err := c.trx.Close(); err != nil {
		errs = append(errs, err)
	}
	if c.watcher != nil {
		if err := c.watcher.Stop(); err != nil {
			errs = append(errs, err)
		}
		c.watcher = nil
	}

	start := time.Now()
	err := c.adapter.Disconnect(ctx)
	c.telemetry.RecordConnection(ctx, telemetry.ConnectionInfo{
		Event:    "disconnect",
		Provider: string(c.adapter.Dialect()),
		Duration: time.Since(start),
		Success:  err == nil,
	})
	if err != nil {
		errs = append(errs, err)
	}
	if err := c.telemetry.Flush(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Query creates a query on table. See query.Engine.NewQuery.
func (c *Client) Query(ctx context.Context, table, where, trxName string) (*query.Query, error) {
	return c.engine.NewQuery(ctx, table, where, trxName)
}

// Run executes fn in a new named transaction. See trx.Manager.Run.
func (c *Client) Run(ctx context.Context, prefix string, fn func(trxName string) error) error {
	return c.trx.Run(ctx, prefix, fn)
}

// Runner implements query.TrxProvider. Statements run through the
// client's middleware chain.
func (c *Client) Runner(name string) (executor.Runner, error) {
	r, err := c.trx.Runner(name)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	chain := c.middlewares
	c.mu.RUnlock()
	if len(chain) == 0 {
		return r, nil
	}
	return &hookedRunner{runner: r, middlewares: chain}, nil
}

// Adapter returns the database adapter.
func (c *Client) Adapter() database.Adapter {
	return c.adapter
}

// Registry returns the dictionary registry.
func (c *Client) Registry() *dictionary.Registry {
	return c.registry
}

// Transactions returns the named transaction manager.
func (c *Client) Transactions() *trx.Manager {
	return c.trx
}

// Selections returns the T_Selection store.
func (c *Client) Selections() *selection.Store {
	return c.selections
}

// Engine returns the query engine.
func (c *Client) Engine() *query.Engine {
	return c.engine
}

// Watcher returns the dictionary watcher, nil unless the client is
// connected with WithDictionaryWatch.
func (c *Client) Watcher() *dictionary.Watcher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watcher
}

// Telemetry returns the telemetry adapter.
func (c *Client) Telemetry() telemetry.Telemetry {
	return c.telemetry
}
