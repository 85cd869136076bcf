// Package timeouts provides centralized timeout values for handler
// operations.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads and snapshot lookups
//   - Medium: list queries, single-document writes
//   - Long: cascading deletes and report exports touching multiple collections
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var mu sync.RWMutex

var (
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for simple operations like single-document reads.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium returns the timeout for moderate operations like list queries and
// single-document upserts.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Long returns the timeout for operations touching multiple collections,
// such as the cascading organ delete and the report exports.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Config holds timeout configuration values. Zero values are ignored.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure sets custom timeout values during application startup. Zero
// values keep the current settings.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	medium = DefaultMedium
	long = DefaultLong
}

// WithTimeout creates a context with the given timeout and returns a cancel
// function that logs a warning if the deadline was exceeded.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
