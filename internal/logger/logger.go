// Package logger provides levelled diagnostic output for vista.
//
// Warnings are always written. Debug and info messages, which trace
// loading, indexing and grounding decisions, are written only when
// verbose mode is enabled via the --verbose flag. Output goes to stderr
// so it never mixes with command results or the MCP stdio stream.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is a logging threshold.
type Level int

const (
	// LevelDebug shows everything.
	LevelDebug Level = iota
	// LevelInfo shows info and warnings.
	LevelInfo
	// LevelWarn shows warnings only.
	LevelWarn
	// LevelSilent suppresses all output.
	LevelSilent
)

// String returns the tag printed in front of messages at this level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "SILENT"
	}
}

var (
	mu     sync.RWMutex
	level            = LevelWarn
	output io.Writer = os.Stderr
)

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// SetVerbose switches between debug output and warnings only.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelWarn)
}

// IsVerbose returns true if debug messages are written.
func IsVerbose() bool {
	return GetLevel() <= LevelDebug
}

// SetOutput sets the destination writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(l Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(output, "[%s] %s\n", l, strings.TrimRight(msg, "\n"))
}

// Debug traces pipeline internals.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info reports a notable event such as a completed reload.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn reports recoverable problems, e.g. unparseable front matter.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Section prints a header separating pipeline stages in debug output.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if level <= LevelDebug {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
