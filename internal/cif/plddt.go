// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cif extracts per-residue confidence scores from AlphaFold mmCIF
// model files.
package cif

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Whitespace-token positions in an atom_site record. AlphaFold model files
// carry the per-residue pLDDT score in the B_iso_or_equiv column.
const (
	fieldResidue = 8  // label_seq_id
	fieldPLDDT   = 14 // B_iso_or_equiv
	minFields    = 15
)

// ParsePLDDT extracts one pLDDT confidence score per residue from mmCIF
// text, in chain order. Atom records repeat a residue's score on every atom
// line; the score is taken from the first atom of each residue, detected by
// a change in the residue index between consecutive atom records. Lines
// whose first token is not ATOM are skipped.
//
// Residue indices must be positive and scores must lie in [0, 100]. An atom
// record that is too short, non-numeric in either field, or out of range is
// an error naming the line and the violated constraint.
func ParsePLDDT(cifText string) ([]float64, error) {
	var plddts []float64
	prevResidue := -1

	sc := bufio.NewScanner(strings.NewReader(cifText))
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "ATOM" {
			continue
		}
		if len(fields) < minFields {
			return nil, fmt.Errorf("atom record on line %d has %d fields, want at least %d", lineNo, len(fields), minFields)
		}

		residue, err := strconv.Atoi(fields[fieldResidue])
		if err != nil {
			return nil, fmt.Errorf("atom record on line %d: residue index %q is not an integer", lineNo, fields[fieldResidue])
		}
		if residue < 1 {
			return nil, fmt.Errorf("atom record on line %d: residue index %d is not positive", lineNo, residue)
		}

		plddt, err := strconv.ParseFloat(fields[fieldPLDDT], 64)
		if err != nil {
			return nil, fmt.Errorf("atom record on line %d: confidence score %q is not a number", lineNo, fields[fieldPLDDT])
		}
		// Negated form so NaN fails the check too.
		if !(plddt >= 0 && plddt <= 100) {
			return nil, fmt.Errorf("atom record on line %d: confidence score %g outside [0, 100]", lineNo, plddt)
		}

		if residue != prevResidue {
			plddts = append(plddts, plddt)
			prevResidue = residue
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning mmCIF text: %w", err)
	}

	return plddts, nil
}
