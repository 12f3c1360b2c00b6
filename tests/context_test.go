//go:build integration

package execkit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/giantswarm/execkit"
)

// TestSpawnWithCanceledContext verifies a context canceled before Spawn
// prevents the child from starting at all.
func TestSpawnWithCanceledContext(t *testing.T) {
	t.Parallel()

	canceledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sharedShell.Spawn(canceledCtx, "sleep", "30")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Spawn error = %v, want context.Canceled", err)
	}
}

// TestExecContextDeadlineKillsCommand verifies a running child is killed at
// the context deadline and reports the kill signal as its exit code.
func TestExecContextDeadlineKillsCommand(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	code, err := sharedShell.Exec(ctx, "sleep", "30", execkit.WithExitCodes(137))
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Exec error = %v, want nil", err)
	}
	if code != 137 {
		t.Errorf("Exec code = %d, want 137 (SIGKILL)", code)
	}
	if elapsed > 10*time.Second {
		t.Errorf("Exec took %v, want well under the 30s sleep", elapsed)
	}
}
