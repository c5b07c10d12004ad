package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// auditSchema creates the audit table and its query indexes.
const auditSchema = `
CREATE TABLE IF NOT EXISTS audit (
    id TEXT PRIMARY KEY,
    identity TEXT NOT NULL,
    step TEXT NOT NULL,
    ruleset TEXT,
    violations INTEGER NOT NULL DEFAULT 0,
    diff_summary TEXT,
    succeeded BOOLEAN NOT NULL,
    error TEXT,
    error_rate REAL NOT NULL DEFAULT 0,
    failed_open BOOLEAN NOT NULL DEFAULT 0,
    description TEXT,
    started_at TIMESTAMP NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_identity ON audit(identity);
CREATE INDEX IF NOT EXISTS idx_audit_step ON audit(step);
CREATE INDEX IF NOT EXISTS idx_audit_recorded_at ON audit(recorded_at);
`

// SQLiteStorageConfig configures the SQLite audit backend.
type SQLiteStorageConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns caps open connections. Default: 10.
	MaxOpenConns int

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// DefaultSQLiteStorageConfig returns the default SQLite configuration.
func DefaultSQLiteStorageConfig(path string) SQLiteStorageConfig {
	return SQLiteStorageConfig{
		Path:         path,
		MaxOpenConns: 10,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (creating if needed) a SQLite audit backend with
// WAL mode enabled.
func NewSQLiteStorage(cfg SQLiteStorageConfig) (*SQLiteStorage, error) {
	if cfg.Path == "" {
		return nil, &StorageError{Operation: "open", Cause: fmt.Errorf("db path cannot be empty")}
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &StorageError{Operation: "open", Cause: err}
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, &StorageError{Operation: "migrate", Cause: err}
	}
	return &SQLiteStorage{db: db}, nil
}

// Store implements Storage.
func (s *SQLiteStorage) Store(ctx context.Context, rec *Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit (id, identity, step, ruleset, violations, diff_summary,
		                    succeeded, error, error_rate, failed_open, description,
		                    started_at, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Identity, rec.Step, rec.Ruleset, rec.Violations, rec.DiffSummary,
		rec.Succeeded, rec.Error, rec.ErrorRate, rec.FailedOpen, rec.Description,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return &StorageError{Operation: "store", Cause: err}
	}
	return nil
}

// Query implements Storage. Records are returned newest first.
func (s *SQLiteStorage) Query(ctx context.Context, q *Query) ([]*Record, error) {
	where, args := buildWhere(q)
	query := `SELECT id, identity, step, COALESCE(ruleset, ''), violations,
	                 COALESCE(diff_summary, ''), succeeded, COALESCE(error, ''),
	                 error_rate, failed_open, COALESCE(description, ''),
	                 started_at, recorded_at
	          FROM audit` + where + ` ORDER BY recorded_at DESC`
	if q != nil && q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Operation: "query", Cause: err}
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var rec Record
		var startedAt, recordedAt string
		if err := rows.Scan(&rec.ID, &rec.Identity, &rec.Step, &rec.Ruleset,
			&rec.Violations, &rec.DiffSummary, &rec.Succeeded, &rec.Error,
			&rec.ErrorRate, &rec.FailedOpen, &rec.Description,
			&startedAt, &recordedAt); err != nil {
			return nil, &StorageError{Operation: "query", Cause: err}
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, &StorageError{Operation: "query", Cause: err}
		}
		if rec.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, &StorageError{Operation: "query", Cause: err}
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Operation: "query", Cause: err}
	}
	return out, nil
}

// Count implements Storage.
func (s *SQLiteStorage) Count(ctx context.Context, q *Query) (int64, error) {
	where, args := buildWhere(q)
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit"+where, args...).Scan(&n)
	if err != nil {
		return 0, &StorageError{Operation: "count", Cause: err}
	}
	return n, nil
}

// Delete implements Storage.
func (s *SQLiteStorage) Delete(ctx context.Context, q *Query) (int64, error) {
	where, args := buildWhere(q)
	res, err := s.db.ExecContext(ctx, "DELETE FROM audit"+where, args...)
	if err != nil {
		return 0, &StorageError{Operation: "delete", Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &StorageError{Operation: "delete", Cause: err}
	}
	return n, nil
}

// Close implements Storage.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// buildWhere translates a Query into a WHERE clause and its arguments.
func buildWhere(q *Query) (string, []any) {
	if q == nil {
		return "", nil
	}
	var conds []string
	var args []any
	if q.Identity != "" {
		conds = append(conds, "identity = ?")
		args = append(args, q.Identity)
	}
	if q.Step != "" {
		conds = append(conds, "step = ?")
		args = append(args, q.Step)
	}
	if q.OnlyFailed {
		conds = append(conds, "succeeded = 0")
	}
	if q.Since != nil {
		conds = append(conds, "recorded_at >= ?")
		args = append(args, q.Since.UTC().Format(time.RFC3339Nano))
	}
	if q.Until != nil {
		conds = append(conds, "recorded_at <= ?")
		args = append(args, q.Until.UTC().Format(time.RFC3339Nano))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
