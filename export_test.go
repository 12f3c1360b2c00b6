package execkit

import (
	"log/slog"
	"time"
)

// ShellConfigSnapshot holds a copy of shellConfig fields for test
// assertions. Exported only via export_test.go so that the _test
// package can verify option closures actually mutate the config
// without accessing internals.
type ShellConfigSnapshot struct {
	Environment       Environment
	Logger            *slog.Logger
	JournalPath       string
	LockRetryInterval time.Duration
}

// ApplyOptionsForTesting builds a default shellConfig, applies the
// given options, and returns a snapshot of the result. This tests the
// option closures directly without constructing a Shell.
func ApplyOptionsForTesting(opts ...Option) ShellConfigSnapshot {
	cfg := defaultShellConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return ShellConfigSnapshot{
		Environment:       cfg.Environment,
		Logger:            cfg.Logger,
		JournalPath:       cfg.JournalPath,
		LockRetryInterval: cfg.LockRetryInterval,
	}
}

// SpawnConfigSnapshot holds a copy of spawnConfig fields for test
// assertions. ValidExitCodesSet distinguishes an explicitly configured
// set (possibly empty, which disables validation) from no
// configuration at all, where the default set applies.
type SpawnConfigSnapshot struct {
	Env               []string
	PipeStdin         bool
	PipeStdout        bool
	PipeStderr        bool
	ValidExitCodes    []int
	ValidExitCodesSet bool
	Dir               string
	LockFile          string
}

// ApplySpawnOptionsForTesting builds a default spawnConfig, applies the
// given options, and returns a snapshot of the result.
func ApplySpawnOptionsForTesting(opts ...SpawnOption) SpawnConfigSnapshot {
	cfg := defaultSpawnConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return SpawnConfigSnapshot{
		Env:               cfg.Env,
		PipeStdin:         cfg.PipeStdin,
		PipeStdout:        cfg.PipeStdout,
		PipeStderr:        cfg.PipeStderr,
		ValidExitCodes:    cfg.ValidExitCodes,
		ValidExitCodesSet: cfg.ValidExitCodes != nil,
		Dir:               cfg.Dir,
		LockFile:          cfg.LockFile,
	}
}
