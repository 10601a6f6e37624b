//go:build unix

package serial

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestAcquireLockExclusive(t *testing.T) {
	// A unique fake device path keeps the derived lock file isolated per test.
	device := filepath.Join(t.TempDir(), "ttyACM9")

	first, err := acquireLock(device)
	if err != nil {
		t.Fatalf("acquireLock() error = %v", err)
	}
	defer first.release()

	// flock is per open file description, so a second acquisition conflicts
	// even within one process.
	second, err := acquireLock(device)
	if err == nil {
		second.release()
		t.Fatal("second acquireLock() succeeded, want ErrDeviceLock")
	}
	if !errors.Is(err, ErrDeviceLock) {
		t.Errorf("second acquireLock() error = %v, want ErrDeviceLock", err)
	}
}

func TestLockReleaseAllowsReacquire(t *testing.T) {
	device := filepath.Join(t.TempDir(), "ttyACM9")

	lock, err := acquireLock(device)
	if err != nil {
		t.Fatalf("acquireLock() error = %v", err)
	}
	lock.release()

	again, err := acquireLock(device)
	if err != nil {
		t.Fatalf("acquireLock() after release error = %v", err)
	}
	again.release()
}

func TestReleaseNilSafe(t *testing.T) {
	var lock *fileLock
	lock.release() // must not panic
}

func TestLockFilePath(t *testing.T) {
	path := lockFilePath("/dev/ttyACM0")

	if !strings.HasSuffix(path, "serialgate-dev-ttyACM0.lock") {
		t.Errorf("lockFilePath() = %q", path)
	}
	if strings.ContainsRune(filepath.Base(path), '/') {
		t.Errorf("lockFilePath() base contains separator: %q", path)
	}
}
