package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

const (
	replaceTimeout = 2 * time.Second
	replacePoll    = 20 * time.Millisecond
)

// Instance is the pid file held by the running bar
type Instance struct {
	path string
	pid  int
}

// AcquireInstance writes the current pid to path. A live process named in
// an existing pid file is sent SIGTERM and given a moment to exit.
func AcquireInstance(path string, logger *slog.Logger) (*Instance, error) {
	if logger == nil {
		logger = slog.Default()
	}
	self := os.Getpid()

	if pid, err := readPid(path); err == nil && pid != self && alive(pid) {
		logger.Info("Replacing running instance", "pid", pid)
		if err := unix.Kill(pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
			return nil, fmt.Errorf("failed to stop instance %d: %w", pid, err)
		}
		if !waitExit(pid, replaceTimeout) {
			logger.Warn("Previous instance did not exit in time", "pid", pid)
		}
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(self)+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write pid file: %w", err)
	}
	return &Instance{path: path, pid: self}, nil
}

// Release removes the pid file if it still names this process
func (i *Instance) Release() {
	if pid, err := readPid(i.path); err == nil && pid == i.pid {
		os.Remove(i.path)
	}
}

func readPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid file %s", path)
	}
	return pid, nil
}

// alive reports whether pid exists and may be signalled by us
func alive(pid int) bool {
	return unix.Kill(pid, 0) == nil
}

func waitExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !alive(pid) {
			return true
		}
		time.Sleep(replacePoll)
	}
	return false
}
