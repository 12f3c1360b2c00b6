package execkit

import (
	"bufio"
	"iter"
)

// Lines is a lazy, single-pass, forward-only sequence over a process's
// standard output lines, shaped like bufio.Scanner. It owns the
// underlying Process: exhausting the sequence releases the handle
// automatically, and the exit-code validation outcome becomes visible
// through Err. A Lines abandoned before exhaustion must be Closed or
// the child's pipe and the handle stay live.
//
// Lines is not safe for concurrent use.
type Lines struct {
	proc    *Process
	scanner *bufio.Scanner

	released   bool // handle released, by exhaustion or Close
	closed     bool
	releaseErr error
}

// newLines wraps a Process whose stdout is piped.
func newLines(p *Process) *Lines {
	sc := bufio.NewScanner(p.Stdout())
	sc.Buffer(make([]byte, 0, 64*1024), DefaultMaxLineBytes)
	return &Lines{proc: p, scanner: sc}
}

// Scan advances to the next output line, blocking until the child
// produces one or closes its output. It returns false at the end of
// the sequence, at which point the handle has been released and Err
// reports the overall outcome. Each produced line is echoed to the
// debug log with the tool name.
func (l *Lines) Scan() bool {
	if l.released {
		return false
	}
	if l.scanner.Scan() {
		l.proc.log.Debug("output line", "tool", l.proc.tool, "text", l.scanner.Text())
		return true
	}
	l.release()
	return false
}

// release closes the handle exactly once and records the outcome for
// Err and Close.
func (l *Lines) release() {
	if l.released {
		return
	}
	l.released = true
	// Scanning can stop mid-stream (early Close, over-long line);
	// closing the pipe first unblocks a child still writing, so the
	// wait inside Close can complete.
	l.proc.closeStdout()
	l.releaseErr = l.proc.Close()
}

// Text returns the line most recently produced by Scan, without its
// line ending.
func (l *Lines) Text() string {
	return l.scanner.Text()
}

// Err returns the first error the sequence ran into: a read or
// line-length error from scanning, or, once the sequence is done, the
// release outcome including exit-code validation.
func (l *Lines) Err() error {
	if err := l.scanner.Err(); err != nil {
		return err
	}
	return l.releaseErr
}

// All returns an iterator over the remaining lines for range-over-func
// loops. The sequence stays single-pass: the iterator shares the
// receiver's cursor, and Err must still be checked after the loop.
// Breaking out early leaves the sequence open; Close it.
func (l *Lines) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for l.Scan() {
			if !yield(l.Text()) {
				return
			}
		}
	}
}

// Close ends the sequence early: it closes the output pipe, which
// unblocks and typically ends a still-writing child, waits for the
// exit, and returns the release outcome including exit-code
// validation. After exhaustion, or on repeated calls, Close returns
// nil; the outcome of an exhausted sequence stays with Err.
func (l *Lines) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	if l.released {
		return nil
	}
	l.release()
	return l.releaseErr
}
