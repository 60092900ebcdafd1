// Package logging captures command output to a log file alongside the
// terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// TeeWriter duplicates writes to a primary writer and a log file.
// It implements io.WriteCloser.
type TeeWriter struct {
	primary io.Writer
	logFile *os.File
	mu      sync.Mutex
}

// Write writes data to both the log file and the primary writer.
func (t *TeeWriter) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		if _, err := t.logFile.Write(p); err != nil {
			return 0, fmt.Errorf("write to log file: %w", err)
		}
	}

	return t.primary.Write(p)
}

// Close closes the log file. The primary writer is not closed.
func (t *TeeWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		if err := t.logFile.Close(); err != nil {
			return fmt.Errorf("close log file: %w", err)
		}
		t.logFile = nil
	}
	return nil
}

// OutputWriters holds stdout and stderr tee writers for one execution,
// both writing through to a single combined log file.
type OutputWriters struct {
	Stdout *TeeWriter
	Stderr *TeeWriter
}

// NewOutputWriters creates tee writers for both stdout and stderr that
// share one log file, so the file interleaves the streams the way the
// terminal saw them.
func NewOutputWriters(stdout, stderr io.Writer, logPath string) (*OutputWriters, error) {
	//nolint:gosec // G304: logPath comes from the caller's --log-file flag
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &OutputWriters{
		Stdout: &TeeWriter{primary: stdout, logFile: logFile},
		Stderr: &TeeWriter{primary: stderr, logFile: logFile},
	}, nil
}

// Close closes the shared log file.
// Only one close is needed since both writers share the same file.
func (o *OutputWriters) Close() error {
	if o.Stdout != nil {
		return o.Stdout.Close()
	}
	return nil
}
