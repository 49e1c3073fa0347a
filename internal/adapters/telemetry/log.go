package telemetry

import (
	"context"
	"log/slog"

	"github.com/satishbabariya/dictquery/internal/debug"
)

// LogTelemetry writes every event through the debug logger.
type LogTelemetry struct {
	logger  *slog.Logger
	service string
}

// NewLogTelemetry creates a log adapter. A nil logger uses the debug logger
// current at the time of each call.
func NewLogTelemetry(config *Config, logger *slog.Logger) *LogTelemetry {
	l := &LogTelemetry{logger: logger}
	if config != nil {
		l.service = config.ServiceName
	}
	return l
}

func (l *LogTelemetry) log() *slog.Logger {
	logger := l.logger
	if logger == nil {
		logger = debug.Logger()
	}
	if l.service != "" {
		logger = logger.With("service", l.service)
	}
	return logger
}

// RecordQuery logs the query at info level.
func (l *LogTelemetry) RecordQuery(ctx context.Context, info QueryInfo) {
	l.log().InfoContext(ctx, "query",
		"table", info.Table,
		"op", info.Operation,
		"duration", info.Duration,
		"success", info.Success,
		"rows", info.Rows,
	)
}

// RecordError logs the failure at error level.
func (l *LogTelemetry) RecordError(ctx context.Context, info ErrorInfo) {
	l.log().ErrorContext(ctx, "query failed",
		"table", info.Table,
		"op", info.Operation,
		"sql", info.SQL,
		"error", info.Error,
	)
}

// RecordConnection logs the connection event.
func (l *LogTelemetry) RecordConnection(ctx context.Context, info ConnectionInfo) {
	l.log().InfoContext(ctx, "connection",
		"event", info.Event,
		"provider", info.Provider,
		"duration", info.Duration,
		"success", info.Success,
	)
}

func (l *LogTelemetry) Flush(ctx context.Context) error { return nil }
func (l *LogTelemetry) Close(ctx context.Context) error { return nil }

var _ Telemetry = (*LogTelemetry)(nil)
