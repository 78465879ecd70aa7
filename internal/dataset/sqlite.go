// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/afdb-harvester/pkg/types"
)

// SQLiteStore keeps the dataset in an SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path and ensures the schema
// exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS proteins (
			accession TEXT PRIMARY KEY,
			n_residues INTEGER NOT NULL,
			sequence TEXT NOT NULL,
			plddts TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// RecoveryPath returns the recovery location next to the database. Recovery
// dumps are plain CSV so they stay readable without the driver.
func (s *SQLiteStore) RecoveryPath() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".recovery.csv"
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads all rows in accession order.
func (s *SQLiteStore) Load(ctx context.Context) ([]types.Protein, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT accession, n_residues, sequence, plddts FROM proteins ORDER BY accession`)
	if err != nil {
		return nil, fmt.Errorf("querying proteins: %w", err)
	}
	defer rows.Close()

	var out []types.Protein
	for rows.Next() {
		var p types.Protein
		var plddts string
		if err := rows.Scan(&p.Accession, &p.NResidues, &p.Sequence, &plddts); err != nil {
			return nil, fmt.Errorf("scanning protein row: %w", err)
		}
		scores, err := splitScores(plddts)
		if err != nil {
			return nil, fmt.Errorf("decoding scores for %s: %w", p.Accession, err)
		}
		p.PLDDTs = scores
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating protein rows: %w", err)
	}
	return out, nil
}

// Persist replaces the table content with rowset in one transaction.
func (s *SQLiteStore) Persist(ctx context.Context, rowset []types.Protein) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM proteins`); err != nil {
		return fmt.Errorf("clearing proteins: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO proteins (accession, n_residues, sequence, plddts) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rowset {
		if _, err := stmt.ExecContext(ctx, p.Accession, p.NResidues, p.Sequence, joinScores(p.PLDDTs)); err != nil {
			return fmt.Errorf("inserting %s: %w", p.Accession, err)
		}
	}
	return tx.Commit()
}

// PersistRecovery dumps rowset to CSV next to the database.
func (s *SQLiteStore) PersistRecovery(_ context.Context, rowset []types.Protein) error {
	return writeCSV(s.RecoveryPath(), rowset)
}
