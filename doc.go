// Package execkit runs external commands from Go build and automation
// scripts.
//
// A Shell is the calling context: it resolves executable names to
// invocable paths, spawns processes with optional stream redirection,
// notifies waiters asynchronously when a process exits, and validates
// exit codes against a configurable allow-list when a handle is
// released. It is a spawning layer, not a supervisor: there are no
// restarts, process trees, or resource limits.
//
// # Basic Usage
//
//	sh := execkit.New()
//	defer sh.Close()
//
//	ctx := context.Background()
//
//	// Run a tool, inherit the parent's streams, require exit code 0.
//	if _, err := sh.Exec(ctx, "go", "build ./..."); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Capture output as one string (no trailing line separator).
//	rev, err := sh.ExecText(ctx, "git", "rev-parse HEAD")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Streaming Lines
//
// ExecLines returns a lazy, single-pass line sequence over the child's
// standard output. The handle is released automatically when the
// sequence is exhausted; exit-code validation surfaces through Err.
//
//	lines, err := sh.ExecLines(ctx, "git", "diff --name-only HEAD")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lines.Close()
//	for lines.Scan() {
//	    fmt.Println(lines.Text())
//	}
//	if err := lines.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Exit Codes
//
// Releasing a handle validates the exit code. The default allow-list
// is {0}; WithExitCodes widens it for tools that use codes as results,
// and an empty set disables validation entirely.
//
//	// grep exits 1 on "no match", which is a result, not a failure.
//	code, err := sh.Exec(ctx, "grep", "-q TODO main.go", execkit.WithExitCodes(0, 1))
//
// # Pipes
//
// Spawn with redirect options to talk to the child directly. Streams
// that are not redirected attach to the parent's own streams.
//
//	p, err := sh.Spawn(ctx, "gzip", "-c",
//	    execkit.WithStdinPipe(), execkit.WithStdoutPipe())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p.WriteAllText(payload)
//	compressed, _ := p.ReadAllText()
//	if err := p.Close(); err != nil {
//	    log.Fatal(err)
//	}
package execkit
