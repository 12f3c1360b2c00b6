// Package lockfile serializes invocations across processes with an
// exclusive file lock.
//
// Locks are advisory flock-style locks from github.com/gofrs/flock.
// Acquisition polls at a caller-chosen interval until the lock is held
// or the context ends. Release is best-effort and leaves the lock file
// on disk.
package lockfile
