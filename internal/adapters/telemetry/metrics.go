package telemetry

import (
	"context"
	"sync"
	"time"
)

// Counts aggregates the queries of one table and operation.
type Counts struct {
	Success  int64
	Errors   int64
	Rows     int64
	Duration time.Duration
}

// MetricsTelemetry keeps in-process counters per table and operation.
type MetricsTelemetry struct {
	mu          sync.RWMutex
	queries     map[string]*Counts
	connections map[string]int64
}

// NewMetricsTelemetry creates an empty metrics adapter.
func NewMetricsTelemetry(config *Config) *MetricsTelemetry {
	return &MetricsTelemetry{
		queries:     make(map[string]*Counts),
		connections: make(map[string]int64),
	}
}

func metricKey(table, op string) string {
	return table + "." + op
}

// RecordQuery counts the query.
func (m *MetricsTelemetry) RecordQuery(ctx context.Context, info QueryInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := metricKey(info.Table, info.Operation)
	c, ok := m.queries[key]
	if !ok {
		c = &Counts{}
		m.queries[key] = c
	}
	if info.Success {
		c.Success++
	} else {
		c.Errors++
	}
	if info.Rows > 0 {
		c.Rows += info.Rows
	}
	c.Duration += info.Duration
}

// RecordError does nothing, failed queries are counted by RecordQuery.
func (m *MetricsTelemetry) RecordError(ctx context.Context, info ErrorInfo) {}

// RecordConnection counts connection events.
func (m *MetricsTelemetry) RecordConnection(ctx context.Context, info ConnectionInfo) {
	m.mu.Lock()
	m.connections[info.Event]++
	m.mu.Unlock()
}

// Snapshot returns a copy of the counters keyed by "table.operation".
func (m *MetricsTelemetry) Snapshot() map[string]Counts {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Counts, len(m.queries))
	for k, c := range m.queries {
		out[k] = *c
	}
	return out
}

// Connections returns the number of connection events by type.
func (m *MetricsTelemetry) Connections(event string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connections[event]
}

func (m *MetricsTelemetry) Flush(ctx context.Context) error { return nil }
func (m *MetricsTelemetry) Close(ctx context.Context) error { return nil }

var _ Telemetry = (*MetricsTelemetry)(nil)
