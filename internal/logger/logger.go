// Package logger provides leveled diagnostics for the agsi CLI.
// Warnings always reach stderr. Debug and info messages are printed only in
// verbose mode (--verbose or the log.verbose setting); they trace loading,
// decoding and validation of documents.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level orders message severity.
type Level int

// Available levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

// String returns the tag printed before each message.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "UNKNOWN"
	}
}

var (
	mu      sync.RWMutex
	minimum           = LevelWarn
	output  io.Writer = os.Stderr
)

// SetVerbose lowers the threshold to debug, or restores it to warnings only.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	if v {
		minimum = LevelDebug
	} else {
		minimum = LevelWarn
	}
}

// IsVerbose returns true if debug messages are printed.
func IsVerbose() bool {
	return Enabled(LevelDebug)
}

// Enabled reports whether messages at l are printed.
func Enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= minimum
}

// SetOutput sets the writer for log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(l Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < minimum {
		return
	}
	fmt.Fprintf(output, "["+l.String()+"] "+format+"\n", args...)
}

// Debug prints a message in verbose mode.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info prints a message in verbose mode.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn prints a warning.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Timed logs at debug level how long the operation took once the returned
// func is called:
//
//	defer logger.Timed("decode %s", path)()
func Timed(format string, args ...any) func() {
	if !IsVerbose() {
		return func() {}
	}
	op := fmt.Sprintf(format, args...)
	start := time.Now()
	return func() {
		Debug("%s took %s", op, time.Since(start).Round(time.Microsecond))
	}
}
