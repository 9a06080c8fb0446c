// Package logger provides verbose logging for the Bestiary CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace requests against the remote collection
// and the incremental search pipeline.
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

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes a prefixed line. Lines are dropped unless verbose is on or force is set.
func emit(force bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose || force {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit(false, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	emit(false, "\n=== ", "%s ===", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	emit(false, "[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
// Degraded remote operations are reported here.
func Warn(format string, args ...any) {
	emit(false, "[WARN] ", format, args...)
}

// Error prints an error message regardless of verbose mode.
// Reserved for long-running commands (serve, mcp) where no caller sees the error.
func Error(format string, args ...any) {
	emit(true, "[ERROR] ", format, args...)
}
