package execkit

import "time"

// Default configuration values for New and Spawn.
// These constants are exported so callers can reference the defaults
// when building custom configurations relative to them (e.g.,
// 2 * DefaultLockRetryInterval).
const (
	// DefaultLockRetryInterval is the interval between consecutive
	// attempts to acquire a WithLockFile lock held by another process.
	// 50ms balances responsiveness (low wait after the holder releases)
	// against CPU overhead from busy-polling.
	DefaultLockRetryInterval = 50 * time.Millisecond

	// DefaultMaxLineBytes is the maximum length of a single line
	// ExecLines and ExecText will buffer. Longer lines make the line
	// sequence fail with bufio.ErrTooLong rather than consuming
	// unbounded memory.
	DefaultMaxLineBytes = 1024 * 1024
)

// DefaultValidExitCodes returns the exit codes a handle accepts when no
// explicit set is configured: just 0. The returned slice is a copy, so
// callers can append to it when building a wider set.
func DefaultValidExitCodes() []int {
	return []int{0}
}
