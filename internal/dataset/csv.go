// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/afdb-harvester/pkg/types"
)

// csvHeader is the dataset column order. The plddts cell holds the whole
// score list, semicolon-separated.
var csvHeader = []string{"accession", "n_residues", "sequence", "plddts"}

// joinScores encodes a score list as a single CSV cell.
func joinScores(scores []float64) string {
	if len(scores) == 0 {
		return ""
	}
	ss := make([]string, len(scores))
	for i, v := range scores {
		ss[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(ss, ";")
}

// splitScores decodes a joinScores cell.
func splitScores(cell string) ([]float64, error) {
	if cell == "" {
		return nil, nil
	}
	parts := strings.Split(cell, ";")
	scores := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("score %q is not a number", p)
		}
		scores[i] = v
	}
	return scores, nil
}

// CSVStore keeps the dataset in a single CSV file.
type CSVStore struct {
	path string
}

// NewCSVStore returns a store over the CSV file at path. The file is
// created on first Persist.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the CSV file location.
func (s *CSVStore) Path() string {
	return s.path
}

// RecoveryPath returns the recovery file location next to the primary,
// e.g. data/afdb_plddt.recovery.csv for data/afdb_plddt.csv.
func (s *CSVStore) RecoveryPath() string {
	ext := filepath.Ext(s.path)
	return strings.TrimSuffix(s.path, ext) + ".recovery" + ext
}

// Close is a no-op; the file is opened per operation.
func (s *CSVStore) Close() error {
	return nil
}

// Load reads all rows. A missing file loads zero rows.
func (s *CSVStore) Load(_ context.Context) ([]types.Protein, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if len(records[0]) != len(csvHeader) || records[0][0] != csvHeader[0] {
		return nil, fmt.Errorf("dataset %s has unexpected header %v", s.path, records[0])
	}

	rows := make([]types.Protein, 0, len(records)-1)
	for i, rec := range records[1:] {
		n, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("dataset %s row %d: residue count %q is not an integer", s.path, i+1, rec[1])
		}
		scores, err := splitScores(rec[3])
		if err != nil {
			return nil, fmt.Errorf("dataset %s row %d: %w", s.path, i+1, err)
		}
		rows = append(rows, types.Protein{
			Accession: rec[0],
			NResidues: n,
			Sequence:  rec[2],
			PLDDTs:    scores,
		})
	}
	return rows, nil
}

// Persist writes rows to the primary location.
func (s *CSVStore) Persist(_ context.Context, rows []types.Protein) error {
	return writeCSV(s.path, rows)
}

// PersistRecovery writes rows to the recovery location.
func (s *CSVStore) PersistRecovery(_ context.Context, rows []types.Protein) error {
	return writeCSV(s.RecoveryPath(), rows)
}

// writeCSV writes a complete dataset file via a temporary file renamed into
// place, so a crash mid-write never leaves a truncated dataset behind.
func writeCSV(path string, rows []types.Protein) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".dataset-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	w := csv.NewWriter(tmpFile)
	writeErr := w.Write(csvHeader)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{
			row.Accession,
			strconv.Itoa(row.NResidues),
			row.Sequence,
			joinScores(row.PLDDTs),
		})
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}
	if writeErr == nil {
		writeErr = tmpFile.Sync()
	}

	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing dataset: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
