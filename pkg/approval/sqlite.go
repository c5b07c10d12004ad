package approval

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// approvalSchema creates the approvals table. The model is a simple PK/SK
// pair: proposal_id plus decision timestamp, newest row wins.
const approvalSchema = `
CREATE TABLE IF NOT EXISTS approvals (
    proposal_id TEXT NOT NULL,
    decided_at TIMESTAMP NOT NULL,
    approver TEXT NOT NULL,
    approved BOOLEAN NOT NULL,
    comments TEXT,
    PRIMARY KEY (proposal_id, decided_at)
);

CREATE INDEX IF NOT EXISTS idx_approvals_proposal ON approvals(proposal_id, decided_at DESC);
`

// SQLiteStoreConfig configures the SQLite approval store.
type SQLiteStoreConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// SQLiteStore persists approvals in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a SQLite approval store.
func NewSQLiteStore(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, &StoreError{Operation: "open", Cause: fmt.Errorf("db path cannot be empty")}
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StoreError{Operation: "open", Cause: err}
	}
	if _, err := db.Exec(approvalSchema); err != nil {
		db.Close()
		return nil, &StoreError{Operation: "migrate", Cause: err}
	}
	return &SQLiteStore{db: db}, nil
}

// Record implements Store.
func (s *SQLiteStore) Record(ctx context.Context, proposalID string, rec Record) error {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO approvals (proposal_id, decided_at, approver, approved, comments)
		 VALUES (?, ?, ?, ?, ?)`,
		proposalID, ts.UTC().Format(time.RFC3339Nano), rec.Approver, rec.Approved, rec.Comments,
	)
	if err != nil {
		return &StoreError{Operation: "record", ProposalID: proposalID, Cause: err}
	}
	return nil
}

// Latest implements Store.
func (s *SQLiteStore) Latest(ctx context.Context, proposalID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT approver, approved, decided_at, COALESCE(comments, '')
		 FROM approvals WHERE proposal_id = ?
		 ORDER BY decided_at DESC LIMIT 1`,
		proposalID,
	)

	var rec Record
	var decidedAt string
	err := row.Scan(&rec.Approver, &rec.Approved, &decidedAt, &rec.Comments)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Operation: "latest", ProposalID: proposalID, Cause: err}
	}

	rec.Timestamp, err = time.Parse(time.RFC3339Nano, decidedAt)
	if err != nil {
		return nil, &StoreError{Operation: "latest", ProposalID: proposalID, Cause: err}
	}
	return &rec, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
