package observability

import "sync/atomic"

// requestLogging tracks whether per-request HTTP logging is enabled.
// Errors are always logged regardless of this setting.
var requestLogging atomic.Bool

// SetRequestLogging toggles HTTP request logging at runtime.
func SetRequestLogging(enabled bool) {
	requestLogging.Store(enabled)
}

// IsRequestLoggingEnabled reports whether HTTP request logging is enabled.
func IsRequestLoggingEnabled() bool {
	return requestLogging.Load()
}
