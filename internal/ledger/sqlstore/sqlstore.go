// Package sqlstore persists ledger chains in SQLite. The composite primary
// key on (namespace, agreement_id, idx) makes a duplicate index a constraint
// violation, so a racing append fails loudly instead of forking the chain.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"leasewarden/internal/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	namespace    TEXT NOT NULL,
	agreement_id TEXT NOT NULL,
	idx          INTEGER NOT NULL,
	entry        TEXT NOT NULL,
	PRIMARY KEY (namespace, agreement_id, idx)
);
`

// Store is a SQLite-backed ledger store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %q: %w", path, err)
	}
	// SQLite handles one writer at a time; a second connection would only
	// produce SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Head returns the highest-index entry for the chain, or nil if empty.
func (s *Store) Head(ctx context.Context, namespace, id string) (*ledger.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT entry FROM ledger_entries
		 WHERE namespace = ? AND agreement_id = ?
		 ORDER BY idx DESC LIMIT 1`, namespace, id)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlstore: read head: %w", err)
	}
	var e ledger.Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, fmt.Errorf("sqlstore: decode head: %w", err)
	}
	return &e, nil
}

// Put inserts a new entry. A duplicate index fails the primary key.
func (s *Store) Put(ctx context.Context, namespace, id string, e ledger.Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("sqlstore: encode entry: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (namespace, agreement_id, idx, entry)
		 VALUES (?, ?, ?, ?)`, namespace, id, e.Index, string(raw))
	if err != nil {
		return fmt.Errorf("sqlstore: insert entry %d: %w", e.Index, err)
	}
	return nil
}

// Entries returns all entries for the chain in ascending index order.
func (s *Store) Entries(ctx context.Context, namespace, id string) ([]ledger.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry FROM ledger_entries
		 WHERE namespace = ? AND agreement_id = ?
		 ORDER BY idx ASC`, namespace, id)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query chain: %w", err)
	}
	defer rows.Close()

	var out []ledger.Entry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("sqlstore: scan entry: %w", err)
		}
		var e ledger.Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("sqlstore: decode entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterate chain: %w", err)
	}
	return out, nil
}

// TamperPayloadHash rewrites one stored entry's payload_hash in place.
// Test helper for integrity checks; never called by production code.
func (s *Store) TamperPayloadHash(ctx context.Context, namespace, id string, index int, hash string) error {
	entries, err := s.Entries(ctx, namespace, id)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Index != index {
			continue
		}
		e.PayloadHash = hash
		raw, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("sqlstore: encode tampered entry: %w", err)
		}
		_, err = s.db.ExecContext(ctx,
			`UPDATE ledger_entries SET entry = ?
			 WHERE namespace = ? AND agreement_id = ? AND idx = ?`,
			string(raw), namespace, id, index)
		return err
	}
	return fmt.Errorf("sqlstore: no entry at index %d", index)
}
