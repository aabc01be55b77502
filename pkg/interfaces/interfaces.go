// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import "time"

// SessionSampler reports how long login sessions have been idle.
type SessionSampler interface {
	// Sample returns the minimum idle duration across all qualifying
	// sessions. ok is false when no session could be sampled; callers
	// must treat that as "idle for longer than any finite threshold".
	Sample() (min time.Duration, ok bool)
}

// GraphicalSource reports compositor-side idleness.
type GraphicalSource interface {
	// Poll services the compositor link, reconnecting if necessary, and
	// returns the current idle flag. An unavailable source reads as
	// not idle.
	Poll() bool
	Linked() bool
}

// ActionRunner spawns the configured idle action.
type ActionRunner interface {
	Run(command string, args []string) error
}
