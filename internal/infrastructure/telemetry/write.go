package telemetry

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Bridging directions recorded with each frame point.
const (
	DirectionSerialToBus = "serial_to_bus"
	DirectionBusToSerial = "bus_to_serial"
)

// RecordFrame records one bridged frame.
//
// Every frame contributes a count; when the payload is a bare JSON number
// (the common case for sensor values) it is additionally recorded as a
// float field so the series can be graphed directly.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - direction: DirectionSerialToBus or DirectionBusToSerial
//   - topic: The full bus topic of the frame
//   - payload: The frame payload as published/received
func (c *Client) RecordFrame(direction, topic string, payload []byte) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"count": 1,
	}
	if v, err := strconv.ParseFloat(string(payload), 64); err == nil {
		fields["value"] = v
	}

	point := write.NewPoint(
		"bridge_frames",
		map[string]string{
			"direction": direction,
			"topic":     topic,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
