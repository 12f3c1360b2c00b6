// Package journal keeps a best-effort SQLite record of spawned
// commands.
//
// Each spawn inserts one row at start (command line, working
// directory, pid, start time); the exit notification later fills in
// the exit code and finish time. The journal is diagnostic
// bookkeeping for build runs, so callers treat every journal failure
// as non-fatal and keep executing.
package journal
