package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Device != "/dev/ttyACM0" {
		t.Errorf("Device = %q, want /dev/ttyACM0", cfg.Device)
	}
	if cfg.MQTT.Host != "localhost" || cfg.MQTT.Port != 1883 {
		t.Errorf("MQTT broker = %s:%d, want localhost:1883", cfg.MQTT.Host, cfg.MQTT.Port)
	}
	if cfg.MQTT.Topic != "node" {
		t.Errorf("MQTT.Topic = %q, want node", cfg.MQTT.Topic)
	}
	if cfg.Retry.Wait {
		t.Error("Retry.Wait = true, want false")
	}
	if cfg.Retry.Delay != 3 {
		t.Errorf("Retry.Delay = %d, want 3", cfg.Retry.Delay)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeTempConfig(t, `
device: /dev/ttyUSB3
mqtt:
  host: broker.example.com
  port: 8883
  topic: gateway/seven
  username: gw
  password: secret
  ca_certs: /etc/ssl/ca.pem
retry:
  wait: true
  delay: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Device != "/dev/ttyUSB3" {
		t.Errorf("Device = %q, want /dev/ttyUSB3", cfg.Device)
	}
	if cfg.MQTT.Host != "broker.example.com" || cfg.MQTT.Port != 8883 {
		t.Errorf("MQTT broker = %s:%d, want broker.example.com:8883", cfg.MQTT.Host, cfg.MQTT.Port)
	}
	if cfg.MQTT.CACerts != "/etc/ssl/ca.pem" {
		t.Errorf("MQTT.CACerts = %q", cfg.MQTT.CACerts)
	}
	if !cfg.Retry.Wait || cfg.Retry.Delay != 5 {
		t.Errorf("Retry = %+v, want wait=true delay=5", cfg.Retry)
	}
	// Unset file keys keep their defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeTempConfig(t, "mqtt: [not, a, mapping")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.MQTT.Port != 1883 {
		t.Errorf("MQTT.Port = %d, want 1883", cfg.MQTT.Port)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERIALGATE_DEVICE", "/dev/ttyACM7")
	t.Setenv("SERIALGATE_MQTT_HOST", "env-broker")
	t.Setenv("SERIALGATE_MQTT_PORT", "2883")
	t.Setenv("SERIALGATE_MQTT_PASSWORD", "hunter2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Device != "/dev/ttyACM7" {
		t.Errorf("Device = %q, want /dev/ttyACM7", cfg.Device)
	}
	if cfg.MQTT.Host != "env-broker" {
		t.Errorf("MQTT.Host = %q, want env-broker", cfg.MQTT.Host)
	}
	if cfg.MQTT.Port != 2883 {
		t.Errorf("MQTT.Port = %d, want 2883", cfg.MQTT.Port)
	}
	if cfg.MQTT.Password != "hunter2" {
		t.Errorf("MQTT.Password not applied from environment")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing device", func(c *Config) { c.Device = "" }, "device is required"},
		{"missing host", func(c *Config) { c.MQTT.Host = "" }, "mqtt.host is required"},
		{"port too low", func(c *Config) { c.MQTT.Port = 0 }, "mqtt.port"},
		{"port too high", func(c *Config) { c.MQTT.Port = 70000 }, "mqtt.port"},
		{"missing topic", func(c *Config) { c.MQTT.Topic = "" }, "mqtt.topic is required"},
		{"negative delay", func(c *Config) { c.Retry.Delay = -1 }, "retry.delay"},
		{"telemetry without url", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.URL = ""
		}, "telemetry.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetRetryDelay(t *testing.T) {
	cfg := Default()
	cfg.Retry.Delay = 7

	if got := cfg.GetRetryDelay(); got != 7*time.Second {
		t.Errorf("GetRetryDelay() = %v, want 7s", got)
	}
}
