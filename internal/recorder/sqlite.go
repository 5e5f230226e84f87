package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"memescout-go/internal/execution"
	"memescout-go/internal/token"
)

// SQLiteRecorder persists outcomes to a local SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reconciliation reads do not block the writing run.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

// Compile-time interface check.
var _ Recorder = (*SQLiteRecorder)(nil)

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS purchase_outcomes (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			contract  TEXT NOT NULL,
			name      TEXT,
			symbol    TEXT,
			sources   TEXT,
			status    TEXT NOT NULL,
			tx_id     TEXT,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_ts ON purchase_outcomes(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_status ON purchase_outcomes(status)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordOutcome appends one terminal outcome row.
func (r *SQLiteRecorder) RecordOutcome(outcome *execution.Outcome) error {
	if outcome == nil {
		return fmt.Errorf("nil outcome")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(
		`INSERT INTO purchase_outcomes (timestamp, contract, name, symbol, sources, status, tx_id, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Unix(),
		outcome.Candidate.Contract,
		outcome.Candidate.Name,
		outcome.Candidate.Symbol,
		strings.Join(outcome.Candidate.SourceNames(), ","),
		string(outcome.Status),
		outcome.TxID,
		outcome.Err,
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// ListTimeouts returns submission failures that carry a transaction id:
// those were submitted but never observed terminal.
func (r *SQLiteRecorder) ListTimeouts() ([]execution.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(
		`SELECT contract, name, symbol, sources, status, tx_id, error
		 FROM purchase_outcomes
		 WHERE status = ? AND tx_id != ''
		 ORDER BY timestamp ASC`,
		string(execution.SubmissionFailed),
	)
	if err != nil {
		return nil, fmt.Errorf("query timeouts: %w", err)
	}
	defer rows.Close()

	var out []execution.Outcome
	for rows.Next() {
		var (
			outcome execution.Outcome
			sources string
			status  string
		)
		if err := rows.Scan(
			&outcome.Candidate.Contract,
			&outcome.Candidate.Name,
			&outcome.Candidate.Symbol,
			&sources,
			&status,
			&outcome.TxID,
			&outcome.Err,
		); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcome.Status = execution.OutcomeStatus(status)
		for _, s := range strings.Split(sources, ",") {
			if s != "" {
				outcome.Candidate.AddSource(token.Source(s))
			}
		}
		out = append(out, outcome)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (r *SQLiteRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Close()
}
