package lockfile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"github.com/giantswarm/execkit/internal/fileutil"
)

// Lock is a held exclusive file lock.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes an exclusive lock on path, retrying at the given
// interval until the lock is held or ctx is done. The parent directory
// of path is created if missing.
func Acquire(ctx context.Context, path string, retry time.Duration) (*Lock, error) {
	if err := fileutil.PrepareParent(path); err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", path, err)
	}

	fl := flock.New(path)

	locked, err := fl.TryLockContext(ctx, retry)
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", path, err)
	}
	if !locked {
		// TryLockContext reports failure through err; cover the
		// (false, nil) case anyway.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring file lock %s: %w", path, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring file lock %s: lock not acquired", path)
	}

	return &Lock{fl: fl}, nil
}

// Path returns the lock file path, or "" for a nil Lock.
func (l *Lock) Path() string {
	if l == nil || l.fl == nil {
		return ""
	}
	return l.fl.Path()
}

// Release drops the lock and closes the file descriptor. The lock file
// is intentionally left on disk: removing it could invalidate a lock
// concurrently acquired by another process through the same path.
// Errors are logged at debug level; this is best-effort cleanup so
// they are not returned. Safe to call on a nil Lock and idempotent.
func (l *Lock) Release(logger *slog.Logger) {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil {
		logger.Debug("failed to release file lock", "path", l.fl.Path(), "err", err)
	}
	l.fl = nil
}
