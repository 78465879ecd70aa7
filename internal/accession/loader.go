// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package accession loads lists of UniProt accessions to process.
package accession

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultColumn is the CSV column read when none is configured. Matching
// is case-insensitive, so lists exported as "UniProt_ID" load unchanged.
const DefaultColumn = "uniprot_id"

// Load reads an accession list from path. A .csv file must carry a header
// row; the named column (DefaultColumn when column is empty) is returned
// in file order. Any other file is read as one accession per line,
// skipping blank lines and # comments. Whitespace is trimmed either way;
// duplicates are kept for the caller to resolve.
func Load(path, column string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return loadCSV(path, column)
	}
	return loadLines(path)
}

func loadCSV(path, column string) ([]string, error) {
	if column == "" {
		column = DefaultColumn
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accession list %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accession list %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("accession list %s is empty", path)
	}

	idx := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("accession list %s has no %q column", path, column)
	}

	var out []string
	for _, rec := range records[1:] {
		if idx >= len(rec) {
			continue
		}
		if acc := strings.TrimSpace(rec[idx]); acc != "" {
			out = append(out, acc)
		}
	}
	return out, nil
}

func loadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accession list %s: %w", path, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading accession list %s: %w", path, err)
	}
	return out, nil
}
