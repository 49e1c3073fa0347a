package telemetry

import (
	"fmt"
)

// TelemetryType represents the type of telemetry.
type TelemetryType string

const (
	TypeNoop    TelemetryType = "noop"
	TypeLog     TelemetryType = "log"
	TypeMetrics TelemetryType = "metrics"
	TypeTrace   TelemetryType = "trace"
)

// NewTelemetry creates a new telemetry adapter based on configuration.
func NewTelemetry(config *Config) (Telemetry, error) {
	if config == nil {
		return NewNoopTelemetry(), nil
	}

	switch TelemetryType(config.Type) {
	case TypeNoop, "":
		return NewNoopTelemetry(), nil
	case TypeLog:
		return NewLogTelemetry(config, nil), nil
	case TypeMetrics:
		return NewMetricsTelemetry(config), nil
	case TypeTrace:
		return NewTraceTelemetry(config), nil
	default:
		return nil, fmt.Errorf("unknown telemetry type: %s", config.Type)
	}
}
