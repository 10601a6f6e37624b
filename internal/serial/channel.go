package serial

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	serial "go.bug.st/serial"
)

// defaultBaudRate is used for every port. Gateway nodes attach as USB CDC-ACM
// devices, which ignore the line speed entirely.
const defaultBaudRate = 115200

// readChunkSize is the buffer size for a single port read.
const readChunkSize = 512

// linePort is the subset of serial.Port the channel needs.
// Narrowing the dependency keeps the channel testable without hardware.
type linePort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Channel owns one open serial device and exposes line-oriented I/O.
//
// A channel belongs to exactly one bridge session. Reads happen from a single
// goroutine; writes may come from both bridge directions and are serialized
// internally so partial lines never interleave on the wire.
type Channel struct {
	port linePort
	path string
	lock *fileLock

	// pending holds bytes read past the last complete line.
	pending []byte

	writeMu sync.Mutex

	closeMu sync.Mutex
	closed  bool
}

// Open opens the serial device at path and performs the protocol handshake.
//
// The read timeout bounds every ReadLine call: when it elapses with no
// complete line available, ReadLine returns empty rather than an error, so
// the caller's loop can observe cancellation promptly.
//
// On success a single newline has already been written to the device; the
// node treats it as a flush of any partially written command.
//
// Parameters:
//   - path: Device path (e.g. /dev/ttyACM0)
//   - timeout: Per-read timeout for ReadLine
//
// Returns:
//   - *Channel: Open channel ready for ReadLine/WriteLine
//   - error: Wrapped ErrDeviceOpen if the device cannot be opened
func Open(path string, timeout time.Duration) (*Channel, error) {
	port, err := serial.Open(path, &serial.Mode{BaudRate: defaultBaudRate})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceOpen, path, err)
	}

	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("%w: %s: setting read timeout: %w", ErrDeviceOpen, path, err)
	}

	c := &Channel{
		port: port,
		path: path,
	}

	// Handshake: one bare newline before normal operation.
	if err := c.WriteLine([]byte("\n")); err != nil {
		port.Close()
		return nil, fmt.Errorf("%w: %s: handshake: %w", ErrDeviceOpen, path, err)
	}

	return c, nil
}

// AcquireExclusiveLock takes a non-blocking exclusive advisory lock for the
// device, guarding against a second gateway instance on the same port.
//
// The lock is held until Close. On platforms without flock this is a no-op.
//
// Returns:
//   - error: Wrapped ErrDeviceLock if another process holds the lock
func (c *Channel) AcquireExclusiveLock() error {
	lock, err := acquireLock(c.path)
	if err != nil {
		return err
	}
	c.lock = lock
	return nil
}

// Path returns the device path the channel was opened with.
func (c *Channel) Path() string {
	return c.path
}

// ReadLine reads one newline-terminated line from the device.
//
// It blocks until a full line arrives or the configured read timeout
// elapses. On timeout it returns (nil, nil); any partial data stays
// buffered for the next call. The returned line has its trailing newline
// (and carriage return) stripped.
//
// A read error wraps ErrDeviceIO and the channel must be considered dead.
func (c *Channel) ReadLine() ([]byte, error) {
	for {
		if i := bytes.IndexByte(c.pending, '\n'); i >= 0 {
			line := c.pending[:i]
			c.pending = append([]byte(nil), c.pending[i+1:]...)
			return bytes.TrimSuffix(line, []byte("\r")), nil
		}

		buf := make([]byte, readChunkSize)
		n, err := c.port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("%w: read: %w", ErrDeviceIO, err)
		}
		if n == 0 {
			// Read timeout with no complete line buffered.
			return nil, nil
		}
		c.pending = append(c.pending, buf[:n]...)
	}
}

// WriteLine writes one complete line to the device.
//
// Writes from concurrent callers are serialized; a partial line is never
// interleaved with another. The caller provides the trailing newline.
//
// Returns ErrClosed after Close. A write error wraps ErrDeviceIO and the
// channel must be considered dead.
func (c *Channel) WriteLine(line []byte) error {
	c.closeMu.Lock()
	closed := c.closed
	c.closeMu.Unlock()
	if closed {
		return ErrClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	for len(line) > 0 {
		n, err := c.port.Write(line)
		if err != nil {
			return fmt.Errorf("%w: write: %w", ErrDeviceIO, err)
		}
		line = line[n:]
	}
	return nil
}

// Close releases the device lock and the underlying port. Idempotent.
func (c *Channel) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.lock != nil {
		c.lock.release()
		c.lock = nil
	}
	return c.port.Close()
}
