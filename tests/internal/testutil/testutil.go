//go:build integration

// Package testutil provides shared helpers for integration test packages.
package testutil

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"sync/atomic"
	"syscall"
	"testing"

	"github.com/giantswarm/execkit"
)

// nameCounter is an atomic counter used by UniqueName to generate names
// that are unique across parallel test goroutines.
var nameCounter atomic.Int64

// UniqueName returns a name that is unique across all parallel tests.
// It combines the given prefix with a monotonically increasing counter
// value. Use it for lock files, scratch files, and journal markers.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, nameCounter.Add(1))
}

// TestParallel returns the effective -test.parallel value for the current test
// binary. This mirrors Go's own default: if the flag is unset or unparseable,
// it falls back to GOMAXPROCS.
func TestParallel() int {
	f := flag.Lookup("test.parallel")
	if f == nil {
		n := runtime.GOMAXPROCS(0)
		slog.Info("test.parallel flag not found, falling back to GOMAXPROCS", "parallel", n)

		return n
	}

	n, err := strconv.Atoi(f.Value.String())
	if err != nil || n < 1 {
		fallback := runtime.GOMAXPROCS(0)
		slog.Warn("test.parallel flag unparseable, falling back to GOMAXPROCS",
			"raw", f.Value.String(), "error", err, "parallel", fallback)

		return fallback
	}

	return n
}

// SetupTestLogging configures slog based on the EXECKIT_LOG_LEVEL environment
// variable. This only affects test runs - the library itself inherits the
// application's logging config.
func SetupTestLogging() {
	levelStr := os.Getenv("EXECKIT_LOG_LEVEL")
	if levelStr == "" {
		levelStr = "INFO"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	execkit.SetLogger(slog.Default().With("component", "execkit"))
}

// RequireToolsOrExit checks that the POSIX tools the integration tests drive
// are available, exiting the process (via os.Exit) if not. This is used in
// TestMain where *testing.T is not available.
func RequireToolsOrExit() {
	for _, tool := range []string{"sh", "cat", "sleep", "seq"} {
		if _, err := exec.LookPath(tool); err != nil {
			fmt.Fprintf(os.Stderr, "%s not found in PATH; integration tests need a POSIX userland\n", tool)
			os.Exit(1)
		}
	}
}

// RunTestMain sets up signal handling for graceful shutdown, runs all tests,
// then performs cleanup (shell close + temp dir removal). Returns the exit
// code.
func RunTestMain(m *testing.M, sh *execkit.Shell, tmpDir string) int {
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			signal.Stop(sigCh) // Restore default handler so a second signal force-kills
			fmt.Fprintf(os.Stderr, "\nReceived %s, shutting down...\n", sig)
			if err := sh.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Close error: %v\n", err)
			}
			_ = os.RemoveAll(tmpDir)
			os.Exit(1)
		case <-done:
			return
		}
	}()

	code := m.Run()

	signal.Stop(sigCh)
	close(done)
	if err := sh.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Close error: %v\n", err)
	}
	_ = os.RemoveAll(tmpDir)

	return code
}
