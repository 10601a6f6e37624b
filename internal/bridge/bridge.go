package bridge

import (
	"context"
	"fmt"
	"sync"
)

// Bridge operation constants.
const (
	// publishQoS is the QoS for every frame published to the bus
	// (at-least-once, matching the node protocol's expectations).
	publishQoS = 1

	// inboundQueueDepth bounds the bus-to-serial queue. The serial link is
	// orders of magnitude slower than the bus; if a burst overruns this,
	// overflow is dropped with a log line rather than blocking delivery.
	inboundQueueDepth = 64
)

// Telemetry directions reported with each bridged frame.
const (
	DirectionSerialToBus = "serial_to_bus"
	DirectionBusToSerial = "bus_to_serial"
)

// BusClient is the pub/sub side of the bridge.
// Implemented by the infrastructure mqtt client; mocked in tests.
type BusClient interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic pattern. The handler runs
	// on the client's own delivery goroutine.
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// LineChannel is the serial side of the bridge.
// Implemented by serial.Channel; mocked in tests.
type LineChannel interface {
	// ReadLine blocks until a line arrives or the read timeout elapses;
	// a timeout returns an empty line and a nil error.
	ReadLine() ([]byte, error)

	// WriteLine writes one complete line; safe for concurrent callers.
	WriteLine(line []byte) error
}

// FrameRecorder receives one callback per bridged frame.
// It is optional — a nil recorder disables telemetry.
type FrameRecorder interface {
	RecordFrame(direction, topic string, payload []byte)
}

// Logger is the logging interface for the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// inboundMessage is one bus message queued for the serial writer.
type inboundMessage struct {
	topic   string
	payload []byte
}

// Options holds the collaborators for one bridge session.
type Options struct {
	// BaseTopic is the configured topic root; normalized internally.
	BaseTopic string

	// Serial is the locked serial channel for this session.
	Serial LineChannel

	// Bus is the connected bus client for this session.
	Bus BusClient

	// Logger is an optional structured logger.
	Logger Logger

	// Recorder is an optional telemetry sink.
	Recorder FrameRecorder
}

// Bridge translates between the serial node and the message bus for the
// lifetime of one session.
//
// The serial-to-bus direction runs on the goroutine calling Run; the
// bus-to-serial direction is fed by the bus client's delivery goroutine
// through a bounded queue drained by a dedicated writer goroutine. The two
// directions share only the serial write path, which the channel serializes.
type Bridge struct {
	base     string
	serial   LineChannel
	bus      BusClient
	logger   Logger
	recorder FrameRecorder

	inbound chan inboundMessage
}

// New creates a bridge for one session. Call Run to start bridging.
func New(opts Options) (*Bridge, error) {
	if opts.Serial == nil {
		return nil, fmt.Errorf("bridge: serial channel is required")
	}
	if opts.Bus == nil {
		return nil, fmt.Errorf("bridge: bus client is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Bridge{
		base:     NormalizeBase(opts.BaseTopic),
		serial:   opts.Serial,
		bus:      opts.Bus,
		logger:   logger,
		recorder: opts.Recorder,
		inbound:  make(chan inboundMessage, inboundQueueDepth),
	}, nil
}

// Run bridges both directions until a fatal condition or cancellation.
//
// It subscribes to the wildcard filter, starts the bus-to-serial writer,
// and then runs the serial-to-bus read loop on the calling goroutine.
// Per-message failures (malformed line, failed publish) are logged and the
// message dropped; serial I/O failures terminate the session.
//
// Returns:
//   - error: nil on cancellation, otherwise a *SessionError with the reason
func (b *Bridge) Run(ctx context.Context) error {
	filter := SubscriptionTopic(b.base)
	if err := b.bus.Subscribe(filter, publishQoS, b.enqueue); err != nil {
		return newSessionError(ReasonBusConnectFailed, err)
	}
	b.logger.Info("subscribed to bus", "filter", filter)

	writeCtx, cancelWriter := context.WithCancel(ctx)
	writerErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		b.writeLoop(writeCtx, writerErr)
	}()
	// Stop the writer before returning so it never touches a closed channel.
	defer func() {
		cancelWriter()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("session cancelled")
			return nil
		case err := <-writerErr:
			return err
		default:
		}

		line, err := b.serial.ReadLine()
		if err != nil {
			return newSessionError(ReasonSerialFailed, err)
		}
		if len(line) == 0 {
			// Read timeout; loop to observe cancellation and writer failure.
			continue
		}

		b.forward(line)
	}
}

// forward translates one serial line into a bus publication.
func (b *Bridge) forward(line []byte) {
	frame, err := DecodeLine(line)
	if err != nil {
		b.logger.Error("invalid frame received from serial port",
			"line", string(line),
			"error", err,
		)
		return
	}

	payload, err := MarshalPayload(frame.Payload)
	if err != nil {
		b.logger.Error("failed to serialize frame payload",
			"suffix", frame.Suffix,
			"error", err,
		)
		return
	}

	topic := SuffixToTopic(b.base, frame.Suffix)
	if err := b.bus.Publish(topic, payload, publishQoS, false); err != nil {
		// Dropped, not retried: the node will report again.
		b.logger.Error("failed to publish frame",
			"topic", topic,
			"error", err,
		)
		return
	}

	b.logger.Debug("frame published", "topic", topic, "payload", string(payload))

	if b.recorder != nil {
		b.recorder.RecordFrame(DirectionSerialToBus, topic, payload)
	}
}

// enqueue hands a bus message to the serial writer.
// It runs on the bus client's delivery goroutine and must not block.
func (b *Bridge) enqueue(topic string, payload []byte) {
	msg := inboundMessage{
		topic:   topic,
		payload: append([]byte(nil), payload...), // delivery buffer may be reused
	}

	select {
	case b.inbound <- msg:
	default:
		b.logger.Warn("inbound queue full, dropping bus message", "topic", topic)
	}
}

// writeLoop drains queued bus messages onto the serial device.
func (b *Bridge) writeLoop(ctx context.Context, errCh chan<- error) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-b.inbound:
			suffix, ok := TopicToSuffix(b.base, msg.topic)
			if !ok {
				// Not under our base; ignore silently.
				continue
			}

			line := EncodeRawLine(suffix, msg.payload)
			if err := b.serial.WriteLine(line); err != nil {
				errCh <- newSessionError(ReasonSerialFailed, err)
				return
			}

			b.logger.Debug("frame written to serial port", "suffix", suffix)

			if b.recorder != nil {
				b.recorder.RecordFrame(DirectionBusToSerial, msg.topic, msg.payload)
			}
		}
	}
}
