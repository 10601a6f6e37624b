// Package logging provides structured logging for the gateway.
//
// It wraps Go's standard log/slog package so every component logs through a
// consistent, structured interface.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("serial port opened", "device", cfg.Device)
//	logger.Error("publish failed", "error", err)
//
// Never log broker passwords or TLS key material.
package logging
