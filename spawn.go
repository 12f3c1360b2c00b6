package execkit

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/giantswarm/execkit/internal/journal"
	"github.com/giantswarm/execkit/internal/lockfile"
)

// Spawn starts executable as a child process and returns its handle.
//
// The executable locator is resolved through the Environment's tool
// lookup, falling back to the literal locator when the lookup fails.
// args is one raw string, parsed into an argument vector with POSIX
// shell word rules (quoting and escaping, no expansion). The child
// runs in the Environment's working directory, or WithDir's, made
// absolute first.
//
// ctx governs the process lifetime: canceling it kills the child. It
// does not cancel Wait or Close, which always block until the exit is
// observed. A nil ctx is rejected immediately with ErrNilContext.
//
// Streams without a With*Pipe option attach to the parent's os.Stdin,
// os.Stdout, and os.Stderr. Start failures (missing executable,
// missing directory) come back wrapped from os/exec; nothing is
// retried.
//
// Callers own the returned handle and must release it with Close. The
// Exec helpers do this internally.
func (s *Shell) Spawn(ctx context.Context, executable, args string, opts ...SpawnOption) (*Process, error) {
	if s == nil {
		return nil, ErrNilShell
	}
	if ctx == nil {
		return nil, ErrNilContext
	}
	if executable == "" {
		return nil, ErrEmptyExecutable
	}

	cfg := defaultSpawnConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	argv, err := shellwords.Parse(args)
	if err != nil {
		return nil, fmt.Errorf("parse arguments %q: %w", args, err)
	}

	path := s.resolver.Resolve(executable)

	dir := cfg.Dir
	if dir == "" {
		if dir, err = s.env.WorkDir(); err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return nil, fmt.Errorf("resolve working directory %q: %w", dir, err)
	}

	var lock *lockfile.Lock
	if cfg.LockFile != "" {
		if lock, err = lockfile.Acquire(ctx, cfg.LockFile, s.lockRetry); err != nil {
			return nil, err
		}
	}

	cmd := exec.CommandContext(ctx, path, argv...)
	cmd.Dir = dir
	if len(cfg.Env) > 0 {
		// os/exec keeps the last value for a repeated name, so the
		// appended overrides win over the inherited environment.
		cmd.Env = append(os.Environ(), cfg.Env...)
	}

	p := &Process{
		cmd:         cmd,
		tool:        executable,
		commandLine: s.resolver.CommandLine(path, args),
		log:         s.log,
		pipedStdin:  cfg.PipeStdin,
		pipedStdout: cfg.PipeStdout,
		pipedStderr: cfg.PipeStderr,
		exited:      make(chan struct{}),
		journal:     s.journal,
		validCodes:  cfg.ValidExitCodes,
		lock:        lock,
	}

	childEnds, err := p.plumbStreams()
	if err != nil {
		p.releaseResources() //nolint:errcheck // fd and lock cleanup on the error path
		return nil, err
	}

	s.log.Debug("starting command", "command", p.commandLine, "dir", dir)

	if err := cmd.Start(); err != nil {
		closeEnds(childEnds)
		p.releaseResources() //nolint:errcheck // fd and lock cleanup on the error path
		return nil, fmt.Errorf("start %s: %w", executable, err)
	}

	// The child holds its own copies of the pipe ends now; the
	// parent's copies must close or pipe readers would never see EOF.
	closeEnds(childEnds)

	p.pid = cmd.Process.Pid

	if s.journal != nil {
		id, jerr := s.journal.RecordStart(ctx, journal.Run{
			Command:   p.commandLine,
			Dir:       dir,
			PID:       p.pid,
			StartedAt: time.Now(),
		})
		if jerr != nil {
			s.log.Warn("journal: record start failed", "command", p.commandLine, "error", jerr)
		} else {
			p.journalID = id
		}
	}

	// The single cmd.Wait goroutine; see Process.waitLoop.
	go p.waitLoop()

	return p, nil
}

// plumbStreams wires the child's standard streams per the redirect
// flags: redirected streams get a fresh pipe with the parent end
// retained on the Process, the rest attach to the parent's own
// streams. It returns the child-side pipe ends, which the caller
// closes once the child owns them (after Start).
//
// Pipes come from os.Pipe rather than the exec.Cmd pipe helpers
// because the Wait goroutine is armed at spawn time: cmd.Wait closes
// StdoutPipe-style pipes as soon as the child exits, racing against
// readers still draining buffered output. Plain *os.File assignments
// leave the parent ends under Process control.
func (p *Process) plumbStreams() ([]*os.File, error) {
	var childEnds []*os.File

	fail := func(stream string, err error) error {
		closeEnds(childEnds)
		return fmt.Errorf("open %s pipe: %w", stream, err)
	}

	if p.pipedStdin {
		r, w, err := os.Pipe()
		if err != nil {
			return nil, fail("stdin", err)
		}
		p.cmd.Stdin = r
		p.stdin = w
		childEnds = append(childEnds, r)
	} else {
		p.cmd.Stdin = os.Stdin
	}

	if p.pipedStdout {
		r, w, err := os.Pipe()
		if err != nil {
			return nil, fail("stdout", err)
		}
		p.cmd.Stdout = w
		p.stdout = r
		childEnds = append(childEnds, w)
	} else {
		p.cmd.Stdout = os.Stdout
	}

	if p.pipedStderr {
		r, w, err := os.Pipe()
		if err != nil {
			return nil, fail("stderr", err)
		}
		p.cmd.Stderr = w
		p.stderr = r
		childEnds = append(childEnds, w)
	} else {
		p.cmd.Stderr = os.Stderr
	}

	return childEnds, nil
}

// closeEnds closes the parent's copies of child-side pipe ends.
func closeEnds(files []*os.File) {
	for _, f := range files {
		f.Close() //nolint:errcheck // child-side ends, best-effort
	}
}

// Exec runs executable to completion with the parent's standard
// streams and returns its exit code. The handle is spawned, awaited,
// and released internally on every path. A non-nil error alongside a
// code means exit-code validation failed; the default allow-list is
// {0}, overridden per call with WithExitCodes.
func (s *Shell) Exec(ctx context.Context, executable, args string, opts ...SpawnOption) (int, error) {
	p, err := s.Spawn(ctx, executable, args, opts...)
	if err != nil {
		return 0, err
	}
	code := p.Wait()
	if err := p.Close(); err != nil {
		return code, err
	}
	return code, nil
}

// ExecText runs executable with stdout redirected, collects every
// output line, and joins them with the host line separator ("\n" on
// POSIX hosts, "\r\n" elsewhere) without a trailing separator. The
// handle is released before returning; an exit-code violation surfaces
// as the returned error with the text discarded.
func (s *Shell) ExecText(ctx context.Context, executable, args string, opts ...SpawnOption) (string, error) {
	lines, err := s.ExecLines(ctx, executable, args, opts...)
	if err != nil {
		return "", err
	}

	sep := "\n"
	if !s.env.IsUnix() {
		sep = "\r\n"
	}

	var b strings.Builder
	first := true
	for lines.Scan() {
		if !first {
			b.WriteString(sep)
		}
		b.WriteString(lines.Text())
		first = false
	}
	if err := lines.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ExecLines runs executable with stdout redirected and returns a lazy,
// single-pass sequence over its output lines, produced as the child
// produces them. Exhausting the sequence releases the handle;
// exit-code validation surfaces through Lines.Err. Callers abandoning
// the sequence before exhaustion must call Lines.Close.
func (s *Shell) ExecLines(ctx context.Context, executable, args string, opts ...SpawnOption) (*Lines, error) {
	withPipe := make([]SpawnOption, 0, len(opts)+1)
	withPipe = append(withPipe, opts...)
	withPipe = append(withPipe, WithStdoutPipe())

	p, err := s.Spawn(ctx, executable, args, withPipe...)
	if err != nil {
		return nil, err
	}
	return newLines(p), nil
}
