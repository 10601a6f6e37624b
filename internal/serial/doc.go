// Package serial owns the exclusive connection to the node's serial device.
//
// A Channel wraps one open port with line-oriented reads and writes:
// ReadLine blocks until a newline or the configured timeout (a timeout is an
// empty result, not an error), and WriteLine serializes writers so the two
// bridge directions never interleave partial lines. Opening a channel writes
// the protocol handshake (a single bare newline) before normal operation.
//
// The channel is guarded twice against a second gateway instance: the serial
// library opens the port with kernel exclusive access where the platform
// supports it, and AcquireExclusiveLock takes a non-blocking advisory flock
// on a sidecar lock file (a no-op on Windows). Lock failure is fatal to the
// session and is not retried at this layer.
//
// ListPorts enumerates available devices for the CLI's --list flag.
package serial
