//go:build integration

package execkit_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/execkit"
)

// TestLockFileSerializesSpawns runs many non-atomic read-modify-write cycles
// against one counter file, each invocation under the same lock file. Lost
// updates would show up as a final count below the number of runs.
func TestLockFileSerializesSpawns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	counter := filepath.Join(dir, "counter")
	lock := filepath.Join(dir, uniqueName("serialize")+".lock")
	if err := os.WriteFile(counter, []byte("0\n"), 0o644); err != nil {
		t.Fatalf("test setup: seed counter: %v", err)
	}

	const runs = 16
	script := fmt.Sprintf(`-c 'n=$(cat %s); sleep 0.01; echo $((n+1)) > %s'`, counter, counter)

	ctx := context.Background()
	var g errgroup.Group
	for i := 0; i < runs; i++ {
		g.Go(func() error {
			code, err := sharedShell.Exec(ctx, "sh", script, execkit.WithLockFile(lock))
			if err != nil {
				return err
			}
			if code != 0 {
				return fmt.Errorf("exit code %d, want 0", code)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(counter)
	if err != nil {
		t.Fatalf("read counter: %v", err)
	}
	got, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("parse counter %q: %v", data, err)
	}
	if got != runs {
		t.Errorf("counter = %d, want %d (updates were lost without serialization)", got, runs)
	}
}

// TestLockAcquisitionRespectsContext verifies a bounded attempt against a
// held lock fails with the context error, and the lock frees on release.
func TestLockAcquisitionRespectsContext(t *testing.T) {
	t.Parallel()

	lock := filepath.Join(t.TempDir(), "contended.lock")
	ctx := context.Background()

	holderCtx, cancelHolder := context.WithCancel(ctx)
	defer cancelHolder()

	holder, err := sharedShell.Spawn(holderCtx, "sleep", "30",
		execkit.WithLockFile(lock), execkit.WithExitCodes())
	if err != nil {
		t.Fatalf("Spawn holder: %v", err)
	}

	// While the holder owns the lock, a bounded attempt must time out.
	waitCtx, cancelWait := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancelWait()
	_, err = sharedShell.Spawn(waitCtx, "true", "", execkit.WithLockFile(lock))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("contended Spawn error = %v, want context.DeadlineExceeded", err)
	}

	// Releasing the holder frees the lock for the next invocation.
	cancelHolder()
	if err := holder.Close(); err != nil {
		t.Fatalf("Close holder: %v", err)
	}

	code, err := sharedShell.Exec(ctx, "true", "", execkit.WithLockFile(lock))
	if err != nil {
		t.Fatalf("Exec after release error = %v, want nil", err)
	}
	if code != 0 {
		t.Errorf("Exec code = %d, want 0", code)
	}
}
