package client

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/satishbabariya/dictquery/query/executor"
)

// QueryEvent represents a statement execution event
type QueryEvent struct {
	Query    string
	Args     []interface{}
	Duration time.Duration
	Error    error
	Start    time.Time
	End      time.Time
}

// Middleware is a function that intercepts statements
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// Use adds a middleware to the chain. It applies to runners obtained
// afterwards.
func (c *Client) Use(middleware Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	chain := make([]Middleware, len(c.middlewares), len(c.middlewares)+1)
	copy(chain, c.middlewares)
	c.middlewares = append(chain, middleware)
}

// hookedRunner runs every statement through a middleware chain.
type hookedRunner struct {
	runner      executor.Runner
	middlewares []Middleware
}

func (h *hookedRunner) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	var rows *sql.Rows
	err := h.execute(ctx, query, args, func() error {
		var err error
		rows, err = h.runner.Query(ctx, query, args...)
		return err
	})
	return rows, err
}

// QueryRow defers errors to Scan, so the chain always sees success.
func (h *hookedRunner) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	var row *sql.Row
	_ = h.execute(ctx, query, args, func() error {
		row = h.runner.QueryRow(ctx, query, args...)
		return nil
	})
	return row
}

func (h *hookedRunner) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	var res sql.Result
	err := h.execute(ctx, query, args, func() error {
		var err error
		res, err = h.runner.Execute(ctx, query, args...)
		return err
	})
	return res, err
}

// execute executes a statement with the middleware chain
func (h *hookedRunner) execute(ctx context.Context, query string, args []interface{}, exec func() error) error {
	event := &QueryEvent{
		Query: query,
		Args:  args,
		Start: time.Now(),
	}

	var next func() error
	index := 0

	next = func() error {
		if index >= len(h.middlewares) {
			// Last middleware, execute the actual statement
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}

		middleware := h.middlewares[index]
		index++
		return middleware(ctx, event, next)
	}

	return next()
}

// LoggingMiddleware creates a middleware that logs statements
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil {
			logger.ErrorContext(ctx, "statement failed", "sql", event.Query, "args", event.Args, "error", err)
		} else {
			logger.InfoContext(ctx, "statement completed", "sql", event.Query, "duration", event.Duration)
		}
		return err
	}
}

// TimingMiddleware creates a middleware that measures statement execution time
func TimingMiddleware(onTiming func(query string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Query, event.Duration)
		}
		return err
	}
}

// ErrorMiddleware creates a middleware that handles errors
func ErrorMiddleware(onError func(query string, err error)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil && onError != nil {
			onError(event.Query, err)
		}
		return err
	}
}

// SlowQueryMiddleware calls onSlow for statements slower than threshold.
func SlowQueryMiddleware(threshold time.Duration, onSlow func(event QueryEvent)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if event.Duration > threshold && onSlow != nil {
			onSlow(*event)
		}
		return err
	}
}
