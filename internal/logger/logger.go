// Package logger provides leveled stderr logging for autoscore.
//
// Debug, Info and Section output appears only in verbose mode (the
// --verbose flag) and traces each rubric check as it runs. Warnings are
// always printed: they report problems that did not stop grading but may
// have changed its outcome, such as a failed checkout of the default branch.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the destination for log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a trace line in verbose mode.
func Debug(format string, args ...any) {
	write(false, "[DEBUG] "+format+"\n", args...)
}

// Info prints a progress line in verbose mode.
func Info(format string, args ...any) {
	write(false, "[INFO] "+format+"\n", args...)
}

// Section prints a header in verbose mode, e.g. before each rubric check.
func Section(name string) {
	write(false, "\n=== %s ===\n", name)
}

// Warn prints a warning, verbose or not.
func Warn(format string, args ...any) {
	write(true, "[WARN] "+format+"\n", args...)
}

func write(always bool, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if always || verbose {
		fmt.Fprintf(output, format, args...)
	}
}
