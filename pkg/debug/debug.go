// Package debug provides conditional debug logging for ccv.
//
// Debug logging is enabled by setting the CCV_DEBUG environment variable:
//
//	CCV_DEBUG=1 ccv analyze --file codes.txt
//
// When enabled, debug messages are written to stderr with timestamps. The TUI
// redirects them to a file with SetOutput so they do not tear the alt screen.
// When disabled (default), all debug functions are no-ops.
//
// Usage:
//
//	import "github.com/vanderheijden86/ccview/pkg/debug"
//
//	func myFunc() {
//	    debug.Log("posting %d bytes", n)
//	    defer debug.LogEnterExit("myFunc")()
//	}
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

const prefix = "[CCV_DEBUG] "

var (
	// enabled is true when CCV_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [CCV_DEBUG] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("CCV_DEBUG") != "" {
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

// SetOutput redirects debug output. It does not change whether logging is
// enabled.
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

// LogEnterExit logs function entry and exit with timing.
// Usage:
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	    // ...
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type for debugging complex structures.
func Dump(name string, v any) {
	if !enabled {
		return
	}
	logger.Printf("%s: %T = %+v", name, v, v)
}
