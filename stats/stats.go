// Package stats persists per-run encoder statistics (constraint-size
// histograms, clause/proof-line counts) to a local SQLite database so
// repeated --stats runs across many OPB files can be queried later.
package stats

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pflow-xyz/pb2cnf/encode"
	"github.com/pflow-xyz/pb2cnf/pbc"
)

// Store wraps a SQLite connection holding the run-history table.
type Store struct {
	db *sql.DB
}

// Run is one recorded encoder invocation.
type Run struct {
	ID          int64
	Input       string
	Scheme      string
	Verified    bool
	NVars       int
	NHard       int
	NProofExprs int
	NCards      int
	NPBs        int
	RecordedAt  time.Time
}

// Open creates (if needed) and opens the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("stats: opening %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("stats: migrating schema: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input TEXT NOT NULL,
		scheme TEXT NOT NULL,
		verified INTEGER NOT NULL,
		n_vars INTEGER NOT NULL,
		n_hard INTEGER NOT NULL,
		n_proof_exprs INTEGER NOT NULL,
		n_cards INTEGER NOT NULL,
		n_pbs INTEGER NOT NULL,
		recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input);
	`)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts one row summarizing f's size after encoding with plan.
// The recorded "scheme" column names the cardinality scheme, since that is
// what the histogram groups by; plan.PBScheme is not stored.
func (s *Store) Record(input string, plan encode.Plan, f *pbc.Formula) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (input, scheme, verified, n_vars, n_hard, n_proof_exprs, n_cards, n_pbs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		input, plan.CardScheme.String(), plan.Verify, f.NVars(), f.NHard(), f.NProofExprs(),
		len(f.Cards), len(f.PBs),
	)
	if err != nil {
		return 0, fmt.Errorf("stats: recording run: %w", err)
	}
	return res.LastInsertId()
}

// Histogram buckets the recorded constraint counts (n_cards + n_pbs) for
// the given input across all its recorded runs, keyed by scheme name.
func (s *Store) Histogram(input string) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT scheme, SUM(n_cards + n_pbs) FROM runs WHERE input = ? GROUP BY scheme`,
		input,
	)
	if err != nil {
		return nil, fmt.Errorf("stats: querying histogram: %w", err)
	}
	defer rows.Close()

	hist := make(map[string]int)
	for rows.Next() {
		var scheme string
		var count int
		if err := rows.Scan(&scheme, &count); err != nil {
			return nil, fmt.Errorf("stats: scanning histogram row: %w", err)
		}
		hist[scheme] = count
	}
	return hist, rows.Err()
}

// Recent returns the most recently recorded runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, input, scheme, verified, n_vars, n_hard, n_proof_exprs, n_cards, n_pbs, recorded_at
		 FROM runs ORDER BY recorded_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("stats: querying recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Input, &r.Scheme, &r.Verified, &r.NVars, &r.NHard,
			&r.NProofExprs, &r.NCards, &r.NPBs, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("stats: scanning run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
