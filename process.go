package execkit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/execkit/internal/journal"
	"github.com/giantswarm/execkit/internal/lockfile"
)

// Process is a handle to one spawned OS process, created by
// Shell.Spawn. It owns the child's redirected pipe ends, the file lock
// if one was requested, and the exit notification.
//
// Exactly one goroutine calls cmd.Wait per process, armed at spawn
// time. Its completion is broadcast through the Exited channel, so any
// number of goroutines may Wait concurrently and all observe the same
// exit code.
//
// Wait and Exited allow unrestricted concurrent use. Stream operations
// may run concurrently with each other and with Wait, but concurrent
// use of one stream is the caller's to serialize. Close is idempotent
// and may be called from any goroutine.
type Process struct {
	cmd         *exec.Cmd
	pid         int
	tool        string
	commandLine string
	log         *slog.Logger

	pipedStdin  bool
	pipedStdout bool
	pipedStderr bool

	// exitCode is published by waitLoop before exited closes; the
	// channel close is the happens-before edge that makes it visible
	// to every waiter.
	exited   chan struct{}
	exitCode int

	journal   *journal.Journal
	journalID int64

	mu         sync.Mutex
	stdin      *os.File // parent write end of the child's stdin pipe
	stdout     *os.File // parent read end of the child's stdout pipe
	stderr     *os.File // parent read end of the child's stderr pipe
	validCodes []int    // nil: default applies; empty: validation off
	closed     bool
	lock       *lockfile.Lock
}

// waitLoop runs as the process's single Wait goroutine. cmd.Wait must
// be called exactly once per started process; arming the goroutine at
// spawn time guarantees that and turns completion into a broadcast.
func (p *Process) waitLoop() {
	err := p.cmd.Wait()
	p.exitCode = exitCodeFromWait(err)
	close(p.exited)

	p.log.Debug("command exited",
		"command", p.commandLine, "pid", p.pid, "exit_code", p.exitCode)

	if p.journal != nil && p.journalID > 0 {
		// The spawn context may be long gone; journaling the exit is
		// not tied to it.
		if jerr := p.journal.RecordExit(context.Background(), p.journalID, p.exitCode); jerr != nil {
			p.log.Warn("journal: record exit failed", "id", p.journalID, "error", jerr)
		}
	}
}

// exitCodeFromWait maps a cmd.Wait result to an exit code. Signal
// deaths map to 128+signal, the shell convention, so a SIGKILLed child
// reports 137 instead of the -1 that os/exec reports. Wait failures
// that carry no exit status report -1.
func exitCodeFromWait(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal())
		}
		return exitErr.ExitCode()
	}
	return -1
}

// Pid returns the operating system process id of the child.
func (p *Process) Pid() int {
	return p.pid
}

// CommandLine returns the display form of the command line this
// process was started with. The executable path is quoted on
// non-POSIX hosts; the form is for diagnostics, not for re-parsing.
func (p *Process) CommandLine() string {
	return p.commandLine
}

// Wait blocks until the process exits and returns its exit code. Any
// number of goroutines may Wait concurrently; all observe the same
// code. Wait performs no exit-code validation and does not release
// the handle.
func (p *Process) Wait() int {
	<-p.exited
	return p.exitCode
}

// Exited returns a channel that is closed when the process exits. It
// is the select-friendly form of Wait; read the code with Wait after
// the channel closes.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// SetValidExitCodes replaces the exit codes Close accepts. Calling it
// with no arguments configures an explicitly empty set, which disables
// validation. The set is only read when the handle is released, so it
// may be adjusted any time before Close.
func (p *Process) SetValidExitCodes(codes ...int) {
	cloned := append([]int{}, codes...)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.validCodes = cloned
}

// ValidExitCodes returns the exit codes Close will accept, as a copy.
// An empty result means validation is disabled for this handle.
func (p *Process) ValidExitCodes() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.validCodes == nil {
		return DefaultValidExitCodes()
	}
	return append([]int{}, p.validCodes...)
}

// validateExitCode checks code against the configured set. A nil set
// means the default applies; an explicitly empty set disables
// validation.
func validateExitCode(code int, codes []int, command string) error {
	if codes == nil {
		codes = DefaultValidExitCodes()
	}
	if len(codes) == 0 {
		return nil
	}
	if slices.Contains(codes, code) {
		return nil
	}
	return &ExitCodeError{Code: code, Command: command}
}

// Close disposes of the handle: it blocks until the process exits,
// validates the exit code against the configured set (returning
// *ExitCodeError on violation), then closes retained pipe ends and
// releases the file lock if one is held.
//
// Close is idempotent: the second and later calls return nil without
// re-validating or re-releasing. A child blocked writing to an unread
// redirected pipe never exits, so consume or close the stream before
// Close.
func (p *Process) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	code := p.Wait()

	p.mu.Lock()
	codes := p.validCodes
	p.mu.Unlock()

	return errors.Join(
		validateExitCode(code, codes, p.commandLine),
		p.releaseResources(),
	)
}

// releaseResources closes the retained pipe ends and releases the file
// lock. Ends already closed (CloseStdin, an early Lines close) are
// skipped.
func (p *Process) releaseResources() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	closeEnd := func(f *os.File) {
		if f == nil {
			return
		}
		if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	closeEnd(p.stdin)
	closeEnd(p.stdout)
	closeEnd(p.stderr)
	p.stdin, p.stdout, p.stderr = nil, nil, nil

	p.lock.Release(p.log)
	p.lock = nil

	return errors.Join(errs...)
}

// stdinEnd returns the retained stdin write end, or the sentinel
// describing why there is none.
func (p *Process) stdinEnd() (*os.File, error) {
	if !p.pipedStdin {
		return nil, ErrNotRedirected
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stdin == nil {
		return nil, ErrClosed
	}
	return p.stdin, nil
}

// stdoutEnd returns the retained stdout read end, or the sentinel
// describing why there is none.
func (p *Process) stdoutEnd() (*os.File, error) {
	if !p.pipedStdout {
		return nil, ErrNotRedirected
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stdout == nil {
		return nil, ErrClosed
	}
	return p.stdout, nil
}

// stderrEnd returns the retained stderr read end, or the sentinel
// describing why there is none.
func (p *Process) stderrEnd() (*os.File, error) {
	if !p.pipedStderr {
		return nil, ErrNotRedirected
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stderr == nil {
		return nil, ErrClosed
	}
	return p.stderr, nil
}

// closeStdout closes the parent's stdout read end early so a producer
// blocked on a full pipe sees a write error instead of waiting for a
// reader that is not coming back.
func (p *Process) closeStdout() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stdout != nil {
		p.stdout.Close() //nolint:errcheck // best-effort unblocking
		p.stdout = nil
	}
}

// Stdin returns the write end of the child's standard input pipe, or
// nil when stdin was not redirected or is already closed.
func (p *Process) Stdin() io.WriteCloser {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stdin == nil {
		return nil
	}
	return p.stdin
}

// Stdout returns the read end of the child's standard output pipe, or
// nil when stdout was not redirected or the handle is released.
func (p *Process) Stdout() io.Reader {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stdout == nil {
		return nil
	}
	return p.stdout
}

// Stderr returns the read end of the child's standard error pipe, or
// nil when stderr was not redirected or the handle is released.
func (p *Process) Stderr() io.Reader {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stderr == nil {
		return nil
	}
	return p.stderr
}

// Read reads from the child's standard output, making the Process an
// io.Reader over it. It returns ErrNotRedirected when stdout was not
// piped and ErrClosed once the handle is released.
func (p *Process) Read(b []byte) (int, error) {
	r, err := p.stdoutEnd()
	if err != nil {
		return 0, err
	}
	return r.Read(b)
}

// Write writes to the child's standard input, making the Process an
// io.Writer over it. It returns ErrNotRedirected when stdin was not
// piped and ErrClosed after CloseStdin or release.
func (p *Process) Write(b []byte) (int, error) {
	w, err := p.stdinEnd()
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}

// CopyTo streams the child's standard output into dst until EOF and
// returns the number of bytes copied.
func (p *Process) CopyTo(dst io.Writer) (int64, error) {
	r, err := p.stdoutEnd()
	if err != nil {
		return 0, err
	}
	return io.Copy(dst, r)
}

// ReadAllText reads the child's standard output to EOF and returns it
// as a string, byte for byte, trailing newline included. For
// line-oriented capture use Shell.ExecText or Shell.ExecLines.
func (p *Process) ReadAllText() (string, error) {
	r, err := p.stdoutEnd()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteAllText writes s to the child's standard input and closes it,
// signaling end of input. The close happens even when the write fails
// partway.
func (p *Process) WriteAllText(s string) error {
	w, err := p.stdinEnd()
	if err != nil {
		return err
	}
	_, werr := io.WriteString(w, s)
	return errors.Join(werr, p.CloseStdin())
}

// CloseStdin closes the child's standard input pipe, signaling end of
// input. Idempotent after the first close; returns ErrNotRedirected
// when stdin was never piped.
func (p *Process) CloseStdin() error {
	if !p.pipedStdin {
		return ErrNotRedirected
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stdin == nil {
		return nil
	}
	err := p.stdin.Close()
	p.stdin = nil
	return err
}

// Relay concurrently copies the child's standard output and standard
// error into the given writers until both reach EOF, which happens
// when the child exits. Both streams must have been redirected.
// Typical use is teeing a long build step into per-stream sinks while
// it runs, then calling Close.
func (p *Process) Relay(stdout, stderr io.Writer) error {
	outR, err := p.stdoutEnd()
	if err != nil {
		return err
	}
	errR, err := p.stderrEnd()
	if err != nil {
		return err
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		_, err := io.Copy(stdout, outR)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(stderr, errR)
		return err
	})
	return g.Wait()
}
