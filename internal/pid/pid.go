// Package pid guards against concurrent daemon instances with a pid file
// under the system temp directory.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/logger"
)

const pidFile = "smcmon.pid"

func path() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// Write claims the pid file for the current process. It fails with
// ErrAlreadyRunning when the file names a live process; a stale file left
// by a crashed instance is replaced.
func Write() error {
	errFactory := errors.New()

	if existing, ok := readExisting(); ok {
		if alive(existing) {
			return errFactory.WithData(errors.ErrAlreadyRunning, existing)
		}
		logger.Debug().Int("stale_pid", existing).Msg("Replacing stale pid file")
	}

	if err := os.WriteFile(path(), []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove deletes the pid file. Missing files are not an error.
func Remove() error {
	if err := os.Remove(path()); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

// readExisting reads the pid recorded in the file, if one parses. An
// unreadable or garbled file is treated as absent and overwritten.
func readExisting() (int, bool) {
	bytes, err := os.ReadFile(path())
	if err != nil {
		return 0, false
	}

	existing, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
	if err != nil || existing <= 0 {
		return 0, false
	}

	return existing, true
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 probes existence without delivering anything.
	return process.Signal(syscall.Signal(0)) == nil
}
