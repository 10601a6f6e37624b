package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the gateway.
//
// It is built once at startup by merging, in increasing precedence:
// built-in defaults, the YAML configuration file, environment variables,
// and command-line flags. After the merge it is treated as immutable for
// the lifetime of the process.
type Config struct {
	// Device is the path to the node's serial port (e.g. /dev/ttyACM0).
	Device string `yaml:"device"`

	MQTT      MQTTConfig      `yaml:"mqtt"`
	Retry     RetryConfig     `yaml:"retry"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// MQTTConfig contains MQTT broker connection settings.
//
// The YAML key names for the TLS materials (ca_certs, certfile, keyfile)
// match the configuration files accepted by earlier gateway releases.
type MQTTConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	CACerts  string `yaml:"ca_certs"`
	CertFile string `yaml:"certfile"`
	KeyFile  string `yaml:"keyfile"`
}

// RetryConfig controls the supervisor's session restart policy.
type RetryConfig struct {
	// Wait enables indefinite session restarts after a failure.
	// When false the process exits after the first terminated session.
	Wait bool `yaml:"wait"`

	// Delay is the fixed backoff between sessions, in seconds.
	Delay int `yaml:"delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TelemetryConfig contains optional InfluxDB frame-metric settings.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// Default returns a Config populated with built-in defaults.
//
// These match the defaults of the original gateway: /dev/ttyACM0,
// localhost:1883, base topic "node", no restart on failure.
func Default() *Config {
	return &Config{
		Device: "/dev/ttyACM0",
		MQTT: MQTTConfig{
			Host:  "localhost",
			Port:  1883,
			Topic: "node",
		},
		Retry: RetryConfig{
			Wait:  false,
			Delay: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Telemetry: TelemetryConfig{
			Enabled:       false,
			URL:           "http://localhost:8086",
			BatchSize:     100,
			FlushInterval: 10,
		},
	}
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Command-line flag overrides are applied afterwards by the caller, giving
// flags the highest precedence.
//
// Parameters:
//   - path: Path to the YAML configuration file; empty skips the file step
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
// Variables follow the pattern SERIALGATE_SECTION_KEY.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERIALGATE_DEVICE"); v != "" {
		cfg.Device = v
	}
	if v := os.Getenv("SERIALGATE_MQTT_HOST"); v != "" {
		cfg.MQTT.Host = v
	}
	if v := os.Getenv("SERIALGATE_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Port = port
		}
	}
	if v := os.Getenv("SERIALGATE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Username = v
	}
	if v := os.Getenv("SERIALGATE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}
	if v := os.Getenv("SERIALGATE_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Device == "" {
		errs = append(errs, "device is required")
	}
	if c.MQTT.Host == "" {
		errs = append(errs, "mqtt.host is required")
	}
	if c.MQTT.Port < 1 || c.MQTT.Port > 65535 {
		errs = append(errs, "mqtt.port must be between 1 and 65535")
	}
	if c.MQTT.Topic == "" {
		errs = append(errs, "mqtt.topic is required")
	}
	if c.Retry.Delay < 0 {
		errs = append(errs, "retry.delay must not be negative")
	}
	if c.Telemetry.Enabled && c.Telemetry.URL == "" {
		errs = append(errs, "telemetry.url is required when telemetry is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetRetryDelay returns the supervisor backoff as a Duration.
func (c *Config) GetRetryDelay() time.Duration {
	return time.Duration(c.Retry.Delay) * time.Second
}
