package execkit

import (
	"fmt"
	"log/slog"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("execkit: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("execkit: %s must not be empty", name))
	}
}

// Option configures a Shell during construction via New.
// Each With* function returns an Option that sets a specific field.
//
// Several With* functions panic on invalid input (nil collaborators,
// empty paths, non-positive durations). These panics are intentional:
// option values are typically compile-time constants or package-level
// variables, so an invalid value indicates a programmer error rather
// than a runtime condition. The pattern mirrors [regexp.MustCompile],
// failing fast during initialization instead of returning errors that
// would be universally fatal anyway.
type Option func(*shellConfig)

// WithEnvironment replaces the host collaborators used for tool
// lookup, the working directory, and the platform query.
//
// Default: OSEnvironment.
//
// Panics if env is nil.
func WithEnvironment(env Environment) Option {
	if env == nil {
		panic("execkit: environment must not be nil")
	}
	return func(c *shellConfig) {
		c.Environment = env
	}
}

// WithLogger sets the logger for this Shell and the processes it
// spawns. Without this option the Shell uses the package logger (see
// SetLogger) captured at construction time.
//
// Panics if l is nil; use SetLogger(nil) to reset the package logger.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("execkit: logger must not be nil")
	}
	return func(c *shellConfig) {
		c.Logger = l
	}
}

// WithJournal enables the invocation journal: every spawn is recorded
// in a SQLite database at path (created on first use, parent directory
// included). Journal failures are logged and never fail a spawn.
//
// Panics if path is empty.
func WithJournal(path string) Option {
	requireNonEmpty("journal path", path)
	return func(c *shellConfig) {
		c.JournalPath = path
	}
}

// WithLockRetryInterval sets the polling interval used when acquiring
// a WithLockFile lock held by another process.
//
// Default: DefaultLockRetryInterval.
//
// Panics if d <= 0.
func WithLockRetryInterval(d time.Duration) Option {
	requirePositive("lock retry interval", d)
	return func(c *shellConfig) {
		c.LockRetryInterval = d
	}
}

// SpawnOption configures a single invocation passed to Spawn, Exec,
// ExecText, or ExecLines.
type SpawnOption func(*spawnConfig)

// WithEnv adds one NAME=VALUE override to the child's environment on
// top of the inherited one. The option is repeatable; overrides apply
// in the order given, and a later value for the same name wins.
//
// Panics if name is empty.
func WithEnv(name, value string) SpawnOption {
	requireNonEmpty("environment variable name", name)
	return func(c *spawnConfig) {
		c.Env = append(c.Env, name+"="+value)
	}
}

// WithStdinPipe redirects the child's standard input to a pipe the
// caller writes through the Process (Write, WriteAllText, Stdin).
// Without it the child inherits the parent's standard input.
func WithStdinPipe() SpawnOption {
	return func(c *spawnConfig) {
		c.PipeStdin = true
	}
}

// WithStdoutPipe redirects the child's standard output to a pipe the
// caller reads through the Process (Read, ReadAllText, CopyTo,
// Stdout). Without it the child inherits the parent's standard output.
func WithStdoutPipe() SpawnOption {
	return func(c *spawnConfig) {
		c.PipeStdout = true
	}
}

// WithStderrPipe redirects the child's standard error to a pipe the
// caller reads through the Process (Stderr, Relay). Without it the
// child inherits the parent's standard error.
func WithStderrPipe() SpawnOption {
	return func(c *spawnConfig) {
		c.PipeStderr = true
	}
}

// WithExitCodes sets the exit codes Close accepts for this invocation.
// Calling it with no arguments configures an explicitly empty set,
// which disables exit-code validation entirely. Without this option
// the set defaults to DefaultValidExitCodes.
func WithExitCodes(codes ...int) SpawnOption {
	// Decouple from the caller's backing array; an empty call still
	// yields a non-nil slice, which is what marks the set as
	// explicitly configured.
	cloned := append([]int{}, codes...)
	return func(c *spawnConfig) {
		c.ValidExitCodes = cloned
	}
}

// WithDir overrides the working directory for this invocation. Without
// it the child runs in the Environment's WorkDir. Relative paths are
// made absolute before the process starts.
//
// Panics if dir is empty.
func WithDir(dir string) SpawnOption {
	requireNonEmpty("working directory", dir)
	return func(c *spawnConfig) {
		c.Dir = dir
	}
}

// WithLockFile serializes this invocation against other processes
// using an exclusive lock on the given file, acquired before the child
// starts and held until the handle is released. Acquisition polls at
// the Shell's lock retry interval and respects the spawn context.
//
// Panics if path is empty.
func WithLockFile(path string) SpawnOption {
	requireNonEmpty("lock file path", path)
	return func(c *spawnConfig) {
		c.LockFile = path
	}
}
