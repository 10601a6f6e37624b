package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/openbridge-io/serialgate/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive matches the keepalive the node gateway has always used.
	defaultKeepAlive = 10 * time.Second

	// reconnectMaxInterval caps the paho backoff while a session is live.
	reconnectMaxInterval = 30 * time.Second

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// buildClientOptions creates paho MQTT options from gateway config.
//
// This configures:
//   - Broker URL (tcp:// or ssl:// depending on whether TLS materials are set)
//   - Authentication credentials (if provided)
//   - In-session auto-reconnect (initial connect failures still surface to
//     the caller; the supervisor owns cross-session retry)
//   - TLS configuration built from the configured CA/cert/key files
//   - Clean session mode
func buildClientOptions(cfg config.MQTTConfig, clientID string) (*pahomqtt.ClientOptions, error) {
	opts := pahomqtt.NewClientOptions()

	tlsConfig, err := buildTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	scheme := "tcp"
	if tlsConfig != nil {
		scheme = "ssl"
		opts.SetTLSConfig(tlsConfig)
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port))

	opts.SetClientID(clientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	// Clean session - the gateway re-issues its subscription on every connect.
	opts.SetCleanSession(true)

	// Reconnect within a session; the first connect is not retried here so the
	// failure reaches the supervisor.
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetMaxReconnectInterval(reconnectMaxInterval)

	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	// In-order handler dispatch preserves per-topic delivery order.
	opts.SetOrderMatters(true)

	return opts, nil
}

// buildTLSConfig loads the configured TLS materials.
//
// Returns nil when no CA bundle is configured, which keeps the connection
// plain TCP. A client certificate requires both certfile and keyfile.
func buildTLSConfig(cfg config.MQTTConfig) (*tls.Config, error) {
	if cfg.CACerts == "" {
		return nil, nil
	}

	caPEM, err := os.ReadFile(cfg.CACerts)
	if err != nil {
		return nil, fmt.Errorf("%w: reading CA bundle: %w", ErrTLSConfig, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("%w: no certificates found in %s", ErrTLSConfig, cfg.CACerts)
	}

	tlsConfig := &tls.Config{
		MinVersion: tlsMinVersion,
		RootCAs:    pool,
	}

	if cfg.CertFile != "" || cfg.KeyFile != "" {
		if cfg.CertFile == "" || cfg.KeyFile == "" {
			return nil, fmt.Errorf("%w: certfile and keyfile must both be set", ErrTLSConfig)
		}
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: loading client certificate: %w", ErrTLSConfig, err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}
