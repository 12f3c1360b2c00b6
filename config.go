package execkit

import (
	"log/slog"
	"time"
)

// shellConfig holds configuration for a Shell, populated by New from
// defaults and Options.
type shellConfig struct {
	Environment       Environment
	Logger            *slog.Logger
	JournalPath       string
	LockRetryInterval time.Duration
}

// defaultShellConfig returns a shellConfig populated with all default
// values. Both New and test helpers use this to avoid duplicating the
// default field assignments. A nil Logger means "use the package
// logger at construction time".
func defaultShellConfig() shellConfig {
	return shellConfig{
		Environment:       OSEnvironment{},
		LockRetryInterval: DefaultLockRetryInterval,
	}
}

// spawnConfig holds per-invocation configuration, populated by Spawn
// from defaults and SpawnOptions.
//
// ValidExitCodes distinguishes nil from empty: nil means no explicit
// set was configured and DefaultValidExitCodes applies; an empty
// non-nil slice is an explicitly empty set and disables validation.
type spawnConfig struct {
	Env            []string
	PipeStdin      bool
	PipeStdout     bool
	PipeStderr     bool
	ValidExitCodes []int
	Dir            string
	LockFile       string
}

// defaultSpawnConfig returns the zero spawn configuration: inherit all
// streams, inherit the environment, default exit-code set, shell
// working directory, no lock.
func defaultSpawnConfig() spawnConfig {
	return spawnConfig{}
}
