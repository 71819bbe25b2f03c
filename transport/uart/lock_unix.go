//go:build unix

package uart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrPortLocked is returned when another process holds the device lock.
var ErrPortLocked = errors.New("serial device locked by another process")

type lockFile struct {
	file *os.File
	path string
}

func lockPath(dir, device string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	name := strings.ReplaceAll(strings.TrimPrefix(filepath.Clean(device), "/"), "/", "_")
	return filepath.Join(dir, "go-rig."+name+".lock")
}

// acquireLock takes an exclusive flock on a file named after device.
func acquireLock(dir, device string) (*lockFile, error) {
	path := lockPath(dir, device)
	//nolint:gosec // path is derived from the device name
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrPortLocked, device)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	_ = f.Truncate(0)
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
	return &lockFile{file: f, path: path}, nil
}

func (l *lockFile) release() error {
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		_ = l.file.Close()
		return fmt.Errorf("failed to unlock %s: %w", l.path, err)
	}
	_ = os.Remove(l.path)
	return l.file.Close()
}
