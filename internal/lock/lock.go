// Package lock keeps a single stopsmokin process writing to a data file at a
// time. The lockfile sits next to the data file and holds the owner's PID.
package lock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/logger"
)

// ErrLocked is returned when a live process already holds the lock.
var ErrLocked = errors.New("data file is in use by another stopsmokin process")

var findProcessFunc = ps.FindProcess

// Lock is a held lockfile.
type Lock struct {
	path string
	pid  int
}

// PathFor returns the lockfile path guarding dataPath.
func PathFor(dataPath string) string {
	return dataPath + constants.LockfileSuffix
}

// Acquire takes the lock for dataPath. A lockfile left behind by a process
// that is no longer running is reclaimed.
func Acquire(dataPath string) (*Lock, error) {
	path := PathFor(dataPath)
	pid := os.Getpid()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(pid) + "\n")
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			logger.Debug("Acquired lock", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		owner, alive, err := Inspect(dataPath)
		if err != nil {
			return nil, err
		}
		if alive {
			return nil, fmt.Errorf("%w (pid %d, lockfile %s)", ErrLocked, owner, path)
		}
		logger.Warn("Removing stale lockfile", "path", path, "pid", owner)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("%w (lockfile %s)", ErrLocked, path)
}

// Inspect reports the PID recorded in the lockfile for dataPath and whether
// that process is still running. A missing lockfile yields (0, false, nil);
// an unreadable PID counts as stale.
func Inspect(dataPath string) (int, bool, error) {
	content, err := os.ReadFile(PathFor(dataPath))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read lockfile: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return 0, false, nil
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false, nil
	}
	return pid, true, nil
}

// Release removes the lockfile if this lock still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lockfile: %w", err)
	}
	if strings.TrimSpace(string(content)) != strconv.Itoa(l.pid) {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Path returns the lockfile path.
func (l *Lock) Path() string {
	return l.path
}
