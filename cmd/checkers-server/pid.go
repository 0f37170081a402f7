package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

var errInstanceRunning = errors.New("another instance is running")

// pidFile is a written PID file, optionally held under an exclusive flock
type pidFile struct {
	path   string
	file   *os.File
	locked bool
}

// managePIDFile writes the server PID to path and returns a cleanup that
// releases the lock and removes the file. With lock set, a leftover file is
// only reused if its recorded process is gone.
func managePIDFile(path string, lock bool) (func(), error) {
	pf, err := openPIDFile(path, lock)
	if err != nil {
		return nil, err
	}

	if lock {
		if err := pf.lock(); err != nil {
			pf.file.Close()
			return nil, err
		}
	}

	if err := pf.write(os.Getpid()); err != nil {
		pf.release()
		return nil, err
	}

	return pf.release, nil
}

func openPIDFile(path string, checkStale bool) (*pidFile, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err == nil {
		return &pidFile{path: path, file: file}, nil
	}
	if !os.IsExist(err) {
		return nil, fmt.Errorf("cannot create PID file: %w", err)
	}

	if checkStale {
		if err := checkStalePID(path); err != nil {
			return nil, err
		}
	}

	file, err = os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open PID file: %w", err)
	}
	return &pidFile{path: path, file: file}, nil
}

func (pf *pidFile) lock() error {
	err := syscall.Flock(int(pf.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	switch {
	case err == nil:
		pf.locked = true
		return nil
	case errors.Is(err, syscall.EWOULDBLOCK):
		return fmt.Errorf("cannot acquire lock: %w", errInstanceRunning)
	default:
		return fmt.Errorf("lock failed: %w", err)
	}
}

func (pf *pidFile) write(pid int) error {
	if _, err := fmt.Fprintf(pf.file, "%d\n", pid); err != nil {
		return fmt.Errorf("cannot write PID: %w", err)
	}
	if err := pf.file.Sync(); err != nil {
		return fmt.Errorf("cannot sync PID file: %w", err)
	}
	return nil
}

func (pf *pidFile) release() {
	if pf.locked {
		syscall.Flock(int(pf.file.Fd()), syscall.LOCK_UN)
	}
	pf.file.Close()
	os.Remove(pf.path)
}

// checkStalePID allows reuse of path only when its process no longer exists
func checkStalePID(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read existing PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("corrupted PID file (contains: %q)", string(data))
	}

	// FindProcess never fails on Unix; signal 0 probes for existence
	proc, _ := os.FindProcess(pid)
	err = proc.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return fmt.Errorf("process %d holds PID file %s: %w", pid, path, errInstanceRunning)
	case errors.Is(err, os.ErrProcessDone), errors.Is(err, syscall.ESRCH):
		return nil
	default:
		return fmt.Errorf("process %d exists but cannot verify ownership: %v", pid, err)
	}
}
