// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Protein holds the per-residue confidence record collected for one
// UniProt accession: the predicted sequence and one pLDDT score per residue.
type Protein struct {
	// Accession is the UniProt accession the record was queried under
	// (e.g. "P69905").
	Accession string `json:"accession" yaml:"accession"`

	// NResidues is the number of residues in the predicted structure;
	// always equal to len(Sequence).
	NResidues int `json:"n_residues" yaml:"n_residues"`

	// Sequence is the amino-acid sequence the prediction covers.
	Sequence string `json:"sequence" yaml:"sequence"`

	// PLDDTs holds one pLDDT confidence score per residue, in chain order.
	PLDDTs []float64 `json:"plddts" yaml:"plddts"`
}
