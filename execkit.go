package execkit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/giantswarm/execkit/internal/journal"
	"github.com/giantswarm/execkit/internal/toolpath"
)

// Shell is the calling context for spawning external commands. It
// carries the host environment, the executable resolver with its
// per-name cache, the logger, and the optional invocation journal.
//
// A Shell is safe for concurrent use; share one across the goroutines
// of a build rather than constructing one per command, so resolver
// cache hits and journal rows accumulate in one place.
type Shell struct {
	env       Environment
	resolver  *toolpath.Resolver
	log       *slog.Logger
	lockRetry time.Duration

	journal   *journal.Journal
	closeOnce sync.Once
}

// New returns a Shell configured by opts.
//
// Panics if any option receives an invalid value; see the individual
// With* functions for constraints. If a configured journal cannot be
// opened, New logs a warning and continues without journaling: the
// journal is diagnostic bookkeeping, never a reason to fail a build.
func New(opts ...Option) *Shell {
	cfg := defaultShellConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	s := &Shell{
		env:       cfg.Environment,
		resolver:  toolpath.NewResolver(cfg.Environment.LookupTool, cfg.Environment.IsUnix()),
		log:       log,
		lockRetry: cfg.LockRetryInterval,
	}

	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			log.Warn("journal disabled: open failed", "path", cfg.JournalPath, "error", err)
		} else {
			s.journal = j
		}
	}

	return s
}

// Close releases shell-owned resources, currently the journal database
// handle. Idempotent: the second and later calls return nil. Processes
// already spawned by the Shell are unaffected and their handles remain
// usable; exits that happen after Close are no longer journaled.
func (s *Shell) Close() error {
	if s == nil {
		return nil
	}
	var err error
	s.closeOnce.Do(func() {
		if s.journal != nil {
			err = s.journal.Close()
		}
	})
	return err
}
