package serial

import "errors"

// Domain errors for the serial channel.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDeviceOpen is returned when the device cannot be opened
	// (missing path, permission denied, busy port).
	ErrDeviceOpen = errors.New("serial: device open failed")

	// ErrDeviceLock is returned when the exclusive advisory lock is
	// already held by another process.
	ErrDeviceLock = errors.New("serial: device is locked by another process")

	// ErrDeviceIO is returned on a read or write failure; the channel is
	// dead once this occurs.
	ErrDeviceIO = errors.New("serial: device I/O failed")

	// ErrClosed is returned when using a channel after Close.
	ErrClosed = errors.New("serial: channel closed")

	// ErrEnumerate is returned when listing available serial ports fails.
	ErrEnumerate = errors.New("serial: port enumeration failed")
)
