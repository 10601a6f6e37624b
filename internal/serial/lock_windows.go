//go:build windows

package serial

// fileLock is a no-op on Windows: there is no flock, and the serial library
// already opens COM ports exclusively. Best effort per the locking contract.
type fileLock struct{}

func acquireLock(string) (*fileLock, error) {
	return nil, nil
}

func (l *fileLock) release() {}
