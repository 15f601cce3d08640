package dispatcher

import "time"

// Config holds dispatcher configuration options.
type Config struct {
	// RecoverFromPanic wraps handler execution in panic recovery.
	RecoverFromPanic bool

	// SlowThreshold is the handler duration above which a warning is
	// logged. Zero disables the warning.
	SlowThreshold time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RecoverFromPanic: true,
		SlowThreshold:    time.Second,
	}
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithSlowThreshold returns a copy of the config with the slow handler
// threshold set.
func (c Config) WithSlowThreshold(d time.Duration) Config {
	c.SlowThreshold = d
	return c
}
