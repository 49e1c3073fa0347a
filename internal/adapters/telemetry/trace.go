package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Span is one recorded operation.
type Span struct {
	TraceID    string
	SpanID     string
	Name       string
	StartTime  time.Time
	EndTime    time.Time
	Status     string
	Attributes map[string]string
}

type traceKey struct{}

// WithTrace returns a context whose recorded spans share one trace id.
func WithTrace(ctx context.Context) context.Context {
	return context.WithValue(ctx, traceKey{}, uuid.NewString())
}

func traceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey{}).(string); ok {
		return id
	}
	return uuid.NewString()
}

// TraceTelemetry buffers spans in memory until flushed.
type TraceTelemetry struct {
	service string

	mu    sync.Mutex
	spans []Span
}

// NewTraceTelemetry creates a trace adapter.
func NewTraceTelemetry(config *Config) *TraceTelemetry {
	service := "dictquery"
	if config != nil && config.ServiceName != "" {
		service = config.ServiceName
	}
	return &TraceTelemetry{service: service}
}

func (t *TraceTelemetry) add(ctx context.Context, name, status string, d time.Duration, attrs map[string]string) {
	end := time.Now()
	attrs["service.name"] = t.service

	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = append(t.spans, Span{
		TraceID:    traceID(ctx),
		SpanID:     uuid.NewString(),
		Name:       name,
		StartTime:  end.Add(-d),
		EndTime:    end,
		Status:     status,
		Attributes: attrs,
	})
}

func status(ok bool) string {
	if ok {
		return "OK"
	}
	return "ERROR"
}

// RecordQuery records a span for the query.
func (t *TraceTelemetry) RecordQuery(ctx context.Context, info QueryInfo) {
	t.add(ctx, "query."+info.Operation, status(info.Success), info.Duration, map[string]string{
		"db.table":     info.Table,
		"db.operation": info.Operation,
		"db.statement": info.SQL,
	})
}

// RecordError records an error span.
func (t *TraceTelemetry) RecordError(ctx context.Context, info ErrorInfo) {
	msg := ""
	if info.Error != nil {
		msg = info.Error.Error()
	}
	t.add(ctx, "query.error", "ERROR", 0, map[string]string{
		"db.table":      info.Table,
		"db.operation":  info.Operation,
		"db.statement":  info.SQL,
		"error.message": msg,
	})
}

// RecordConnection records a connection span.
func (t *TraceTelemetry) RecordConnection(ctx context.Context, info ConnectionInfo) {
	t.add(ctx, "connection."+info.Event, status(info.Success), info.Duration, map[string]string{
		"db.system": info.Provider,
	})
}

// Spans returns the buffered spans.
func (t *TraceTelemetry) Spans() []Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Span(nil), t.spans...)
}

// Flush drops the buffered spans.
func (t *TraceTelemetry) Flush(ctx context.Context) error {
	t.mu.Lock()
	t.spans = nil
	t.mu.Unlock()
	return nil
}

// Close flushes the adapter.
func (t *TraceTelemetry) Close(ctx context.Context) error {
	return t.Flush(ctx)
}

var _ Telemetry = (*TraceTelemetry)(nil)
