// Package telemetry records per-frame gateway metrics to InfluxDB.
//
// Telemetry is optional and disabled by default. When enabled, the bridge
// reports one point per translated frame (measurement "bridge_frames",
// tagged by direction and topic); numeric payloads also record a value
// field. Writes are batched and asynchronous so bridging is never blocked
// by the metrics backend, and the gateway never reads telemetry back: the
// bridge itself stays stateless.
package telemetry
