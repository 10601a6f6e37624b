package telemetry

import "errors"

// Domain-specific errors for telemetry operations.
var (
	// ErrDisabled is returned when connecting while telemetry is disabled.
	ErrDisabled = errors.New("telemetry: disabled in configuration")

	// ErrConnectionFailed is returned when the InfluxDB server is unreachable
	// or unhealthy at startup.
	ErrConnectionFailed = errors.New("telemetry: connection failed")
)
