package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"

	"github.com/giantswarm/execkit/internal/fileutil"
)

// Run is one journaled invocation. ExitCode and FinishedAt are nil
// until the process has exited.
type Run struct {
	ID         int64
	Command    string
	Dir        string
	PID        int
	StartedAt  time.Time
	ExitCode   *int
	FinishedAt *time.Time
}

// Journal records invocations in a SQLite database. Methods are safe
// for concurrent use. Errors are returned for the caller to log;
// nothing here is worth failing a build over.
type Journal struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	command     TEXT    NOT NULL,
	dir         TEXT    NOT NULL,
	pid         INTEGER NOT NULL,
	started_at  INTEGER NOT NULL,
	exit_code   INTEGER,
	finished_at INTEGER
)`

// Open opens the journal database at path, creating the file, its
// parent directory, and the schema as needed.
func Open(path string) (*Journal, error) {
	if err := fileutil.PrepareParent(path); err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	// WAL mode plus a busy timeout so concurrent build processes
	// sharing one journal file do not trip over each other. NORMAL
	// synchronous mode is enough for diagnostic data.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	// One connection is enough: the journal is a low-traffic log, not
	// a pool workload.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck // already on the error path
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}

// RecordStart inserts a row for a freshly started invocation and
// returns its journal id.
func (j *Journal) RecordStart(ctx context.Context, r Run) (int64, error) {
	const stmt = `INSERT INTO runs (command, dir, pid, started_at) VALUES (?, ?, ?, ?)`

	res, err := j.db.ExecContext(ctx, stmt, r.Command, r.Dir, r.PID, r.StartedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("record run start: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record run start: %w", err)
	}
	return id, nil
}

// RecordExit fills in the exit code and finish time for a previously
// recorded run.
func (j *Journal) RecordExit(ctx context.Context, id int64, code int) error {
	const stmt = `UPDATE runs SET exit_code = ?, finished_at = ? WHERE id = ?`

	if _, err := j.db.ExecContext(ctx, stmt, code, time.Now().UnixMilli(), id); err != nil {
		return fmt.Errorf("record run exit: %w", err)
	}
	return nil
}

// Recent returns up to n journaled runs, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Run, error) {
	const query = `
		SELECT id, command, dir, pid, started_at, exit_code, finished_at
		FROM runs ORDER BY id DESC LIMIT ?
	`

	rows, err := j.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err() below catches read errors

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  int64
			exitCode   sql.NullInt64
			finishedAt sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Command, &r.Dir, &r.PID, &startedAt, &exitCode, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedAt)
		if exitCode.Valid {
			code := int(exitCode.Int64)
			r.ExitCode = &code
		}
		if finishedAt.Valid {
			t := time.UnixMilli(finishedAt.Int64)
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}
