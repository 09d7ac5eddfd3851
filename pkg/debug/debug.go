// Package debug provides conditional debug logging for av.
//
// Debug logging is enabled by setting the AV_DEBUG environment variable:
//
//	AV_DEBUG=1 av --data ./rows.jsonl
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops.
package debug

import (
	"log"
	"os"
	"time"
)

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("AV_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[AV_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// Log writes a formatted debug message when debug logging is enabled.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming records how long an operation took.
func LogTiming(op string, elapsed time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %s", op, elapsed)
}

// Timed runs fn and logs its duration under the given operation name.
func Timed(op string, fn func()) {
	if !enabled {
		fn()
		return
	}
	start := time.Now()
	fn()
	logger.Printf("%s took %s", op, time.Since(start))
}
