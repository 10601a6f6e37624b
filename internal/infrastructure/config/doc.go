// Package config loads and validates gateway configuration.
//
// Configuration is merged once at startup from four sources, in increasing
// precedence: built-in defaults, a YAML file, SERIALGATE_* environment
// variables, and command-line flags (applied by cmd/serialgate). The merged
// value is immutable for the lifetime of the process; there is no live
// reload.
//
// # File format
//
//	device: /dev/ttyACM0
//	mqtt:
//	  host: localhost
//	  port: 1883
//	  topic: node
//	  username: ""
//	  password: ""
//	  ca_certs: ""
//	  certfile: ""
//	  keyfile: ""
//	retry:
//	  wait: false
//	  delay: 3
//	logging:
//	  level: info
//	  format: json
//	  output: stdout
//	telemetry:
//	  enabled: false
//	  url: http://localhost:8086
//
// Secrets (mqtt.password, telemetry.token) are better supplied through the
// environment than the file.
package config
