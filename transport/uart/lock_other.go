//go:build !unix

package uart

import "errors"

// ErrPortLocked is returned when another process holds the device lock.
var ErrPortLocked = errors.New("serial device locked by another process")

// lockFile is a no-op here; the OS opens serial devices exclusively.
type lockFile struct{}

func acquireLock(_, _ string) (*lockFile, error) {
	return &lockFile{}, nil
}

func (*lockFile) release() error {
	return nil
}
