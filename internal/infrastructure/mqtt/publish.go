package mqtt

import (
	"fmt"
)

// Maximum payload size for MQTT messages (1MB).
// Serial frames are tiny; this is a guard against a runaway node.
const maxPayloadSize = 1 << 20

// Publish sends a message to the specified MQTT topic.
//
// The gateway publishes frames at QoS 1 (at-least-once). A publish on a
// disconnected client fails immediately with ErrNotConnected; the bridge
// treats any publish failure as recoverable-per-message and drops the frame.
//
// Parameters:
//   - topic: The topic to publish to (e.g. "node/1/sensor/temp/0/value")
//   - payload: The message payload (JSON text)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}
