package bridge

import (
	"context"
	"time"

	"github.com/openbridge-io/serialgate/internal/infrastructure/config"
	"github.com/openbridge-io/serialgate/internal/infrastructure/logging"
	"github.com/openbridge-io/serialgate/internal/infrastructure/mqtt"
	"github.com/openbridge-io/serialgate/internal/serial"
)

// serialReadTimeout bounds each serial read so the session observes
// cancellation promptly while the node is quiet.
const serialReadTimeout = 3 * time.Second

// RunSession acquires the serial device and the bus connection, then
// bridges them until cancellation or a fatal failure.
//
// All resources are scoped to the call: the serial port, its exclusive
// lock and the bus connection are released before returning, so a
// supervisor can invoke RunSession repeatedly.
//
// Parameters:
//   - ctx: cancels the session
//   - cfg: validated runtime configuration
//   - log: structured logger
//   - recorder: optional telemetry sink, may be nil
//
// Returns:
//   - error: nil on cancellation, otherwise a *SessionError with the reason
func RunSession(ctx context.Context, cfg *config.Config, log *logging.Logger, recorder FrameRecorder) error {
	ch, err := serial.Open(cfg.Device, serialReadTimeout)
	if err != nil {
		return newSessionError(ReasonSerialOpenFailed, err)
	}
	defer ch.Close()

	if err := ch.AcquireExclusiveLock(); err != nil {
		return newSessionError(ReasonLockFailed, err)
	}
	log.Info("serial port opened", "device", cfg.Device)

	bus, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return newSessionError(ReasonBusConnectFailed, err)
	}
	defer bus.Close()

	bus.SetLogger(log)
	bus.SetOnConnect(func() {
		log.Info("connected to MQTT broker", "host", cfg.MQTT.Host, "port", cfg.MQTT.Port)
	})
	bus.SetOnDisconnect(func(err error) {
		log.Warn("disconnected from MQTT broker", "error", err)
	})
	log.Info("connected to MQTT broker", "host", cfg.MQTT.Host, "port", cfg.MQTT.Port)

	b, err := New(Options{
		BaseTopic: cfg.MQTT.Topic,
		Serial:    ch,
		Bus:       bus,
		Logger:    log,
		Recorder:  recorder,
	})
	if err != nil {
		return err
	}

	return b.Run(ctx)
}
