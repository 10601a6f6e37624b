// Package bridge translates between a line-oriented serial node and an
// MQTT message bus.
//
// Each line from the node is a two-element JSON array, a topic suffix and
// an arbitrary payload:
//
//	["1/thermometer/0:0/temperature", 23.50]
//
// The bridge publishes the payload under the configured base topic and
// mirrors bus messages under that base back onto the serial line in the
// same framing. Numeric payloads keep their exact decimal text in both
// directions.
//
// Architecture:
//
//	                  +---------------------------------+
//	 serial device    |             Bridge              |    MQTT broker
//	+--------------+  |                                 |  +-------------+
//	| line frames  |--|--> read loop ----> publish -----|->| base/...    |
//	|              |<-|-- write loop <-- queue <-- sub -|--| base/+/...  |
//	+--------------+  |                                 |  +-------------+
//	                  +---------------------------------+
//
// The serial-to-bus direction runs on the Run caller's goroutine. The
// bus-to-serial direction is decoupled from broker delivery by a bounded
// queue drained by a dedicated writer goroutine; overflow is dropped and
// logged rather than blocking the broker client.
//
// RunSession owns the session lifecycle: open and lock the device, connect
// the bus, bridge until failure or cancellation, release everything.
// Supervisor layers an explicit restart policy on top of RunSession.
package bridge
