//go:build !windows

// Package stderr captures output that audio backends (ALSA, the mp3
// decoder) write straight to file descriptor 2. Left alone, those lines
// corrupt the TUI layout; captured, they can be logged after exit.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

// Lines receives captured stderr lines while capture is active.
var Lines = make(chan string, 100)

var (
	origStderr int
	pipeRead   *os.File
	pipeWrite  *os.File
	started    bool
)

// Start redirects fd 2 into a pipe. Call before the speaker is initialised;
// a failure is non-fatal, output just stays on the terminal.
func Start() error {
	if started {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	origStderr, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(origStderr)
		r.Close()
		w.Close()
		return err
	}

	pipeRead = r
	pipeWrite = w
	started = true

	go func() {
		scanner := bufio.NewScanner(pipeRead)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case Lines <- line:
			default:
				// channel full, drop rather than block the reader
			}
		}
	}()

	return nil
}

// Stop restores the original stderr and closes Lines.
func Stop() {
	if !started {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)

	pipeWrite.Close()
	pipeRead.Close()

	close(Lines)
	started = false
}
