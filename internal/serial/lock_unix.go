//go:build unix

package serial

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// fileLock holds an exclusive flock on a sidecar lock file for a device.
//
// The lock is advisory: it guards against a second gateway instance, not
// against arbitrary programs opening the port. The port itself is also
// opened with kernel exclusive access by the serial library, so the two
// mechanisms together keep open-failure and lock-failure distinct.
type fileLock struct {
	file *os.File
}

// acquireLock takes a non-blocking exclusive flock for the given device path.
func acquireLock(devicePath string) (*fileLock, error) {
	path := lockFilePath(devicePath)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening lock file %s: %w", ErrDeviceLock, path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrDeviceLock, devicePath)
		}
		return nil, fmt.Errorf("%w: flock %s: %w", ErrDeviceLock, path, err)
	}

	return &fileLock{file: f}, nil
}

// release drops the flock and closes the lock file.
// The file itself is left in place; unlinking would race a concurrent locker.
func (l *fileLock) release() {
	if l == nil || l.file == nil {
		return
	}
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}

// lockFilePath derives the sidecar lock file path for a device.
// "/dev/ttyACM0" becomes "<tmpdir>/serialgate-dev-ttyACM0.lock".
func lockFilePath(devicePath string) string {
	name := strings.Trim(devicePath, string(os.PathSeparator))
	name = strings.ReplaceAll(name, string(os.PathSeparator), "-")
	return filepath.Join(os.TempDir(), "serialgate-"+name+".lock")
}
