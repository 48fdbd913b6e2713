// Package debug provides conditional debug logging for wellpick.
//
// Debug logging is enabled by setting the WELLPICK_DEBUG environment variable:
//
//	WELLPICK_DEBUG=1 wellpick tree --filter 一井
//
// Messages go to stderr with timestamps unless redirected with SetOutput
// (the TUI sends them to a log file so they never draw over the screen).
// When disabled (default), all debug functions are no-ops.
//
// Usage:
//
//	import "github.com/vanderheijden86/wellpick/pkg/debug"
//
//	func load() {
//	    debug.Log("loaded %d nodes", count)
//	    debug.LogTiming("load", elapsed)
//	}
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

const prefix = "[WELLPICK_DEBUG] "

var (
	// enabled is true when WELLPICK_DEBUG env var is set
	enabled bool
	// logger writes to stderr (or the SetOutput writer) with the debug prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("WELLPICK_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output.
func SetOutput(w io.Writer) {
	if logger == nil {
		logger = log.New(w, prefix, log.Ltime|log.Lmicroseconds)
		return
	}
	logger.SetOutput(w)
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Printf(format, args...)
}
