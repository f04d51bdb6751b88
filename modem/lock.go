package modem

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultLockDir is where UUCP style device locks live.
const DefaultLockDir = "/var/lock"

// portLock is a held LCK..<device> file. A nil *portLock means the device is
// used without a lock.
type portLock struct {
	path string
	pid  int
}

// LockPath returns the lock file used for device in dir.
func LockPath(dir, device string) string {
	if dir == "" {
		dir = DefaultLockDir
	}
	return filepath.Join(dir, "LCK.."+filepath.Base(device))
}

// acquireLock creates the lock file for device holding our PID. A lock held
// by a live process fails with ErrPortBusy; a stale one is replaced. When
// the lock directory is not writable the device is used unlocked.
func acquireLock(dir, device string, logger *slog.Logger) (*portLock, error) {
	path := LockPath(dir, device)
	pid := os.Getpid()

	for range 2 {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		switch {
		case err == nil:
			_, werr := fmt.Fprintf(f, "%10d\n", pid)
			if err := errors.Join(werr, f.Close()); err != nil {
				os.Remove(path)
				return nil, fmt.Errorf("%w: write lock %s: %v", ErrPort, path, err)
			}
			logger.Debug("port locked", "lock", path)
			return &portLock{path: path, pid: pid}, nil

		case errors.Is(err, fs.ErrExist):
			owner, rerr := readLockPID(path)
			if rerr == nil && owner != pid && processAlive(owner) {
				return nil, fmt.Errorf("%w: %s held by pid %d", ErrPortBusy, device, owner)
			}
			logger.Warn("removing stale lock", "lock", path, "pid", owner)
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("cannot remove stale lock, continuing without locking", "lock", path, "error", err)
				return nil, nil
			}

		case errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist):
			logger.Warn("cannot create lock, continuing without locking", "lock", path, "error", err)
			return nil, nil

		default:
			return nil, fmt.Errorf("%w: create lock %s: %v", ErrPort, path, err)
		}
	}
	return nil, fmt.Errorf("%w: lock %s keeps reappearing", ErrPortBusy, path)
}

func readLockPID(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(b)))
}

// release removes the lock file if it still names our process.
func (l *portLock) release() {
	if l == nil {
		return
	}
	if owner, err := readLockPID(l.path); err == nil && owner == l.pid {
		os.Remove(l.path)
	}
}
