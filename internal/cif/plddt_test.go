package cif

import (
	"strings"
	"testing"
)

const sampleCIF = `data_AF-P69905-F1
#
_entry.id AF-P69905-F1
_struct.title "Structure prediction"
#
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.type_symbol
_atom_site.label_atom_id
_atom_site.label_alt_id
_atom_site.label_comp_id
_atom_site.label_asym_id
_atom_site.label_entity_id
_atom_site.label_seq_id
_atom_site.pdbx_PDB_ins_code
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.occupancy
_atom_site.B_iso_or_equiv
_atom_site.pdbx_formal_charge
_atom_site.auth_seq_id
_atom_site.auth_comp_id
_atom_site.auth_asym_id
_atom_site.auth_atom_id
_atom_site.pdbx_PDB_model_num
ATOM 1 N N  . VAL A 1 1 ? -4.283 -14.289 -0.136 1.0 52.31 ? 1 VAL A N  1
ATOM 2 C CA . VAL A 1 1 ? -3.097 -13.528 0.292  1.0 52.31 ? 1 VAL A CA 1
ATOM 3 C C  . LEU A 1 2 ? -2.015 -14.324 0.991  1.0 67.80 ? 2 LEU A C  1
ATOM 4 O O  . LEU A 1 2 ? -1.452 -15.280 0.462  1.0 67.80 ? 2 LEU A O  1
ATOM 5 N N  . SER A 1 3 ? -1.701 -13.911 2.214  1.0 71.25 ? 3 SER A N  1
HETATM 6 ZN ZN . ZN B 2 . ? 0.000 0.000 0.000 1.0 99.99 ? 101 ZN B ZN 1
#
`

// atomLine builds a minimal atom_site record with the given residue index
// and confidence score in the positions AlphaFold files use.
func atomLine(residue, plddt string) string {
	return "ATOM 1 N N . ALA A 1 " + residue + " ? 0.0 0.0 0.0 1.0 " + plddt + " ? 1 ALA A N 1"
}

func TestParsePLDDT(t *testing.T) {
	got, err := ParsePLDDT(sampleCIF)
	if err != nil {
		t.Fatalf("ParsePLDDT: %v", err)
	}

	want := []float64{52.31, 67.80, 71.25}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("plddts[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParsePLDDTFirstAtomWins(t *testing.T) {
	// Scores never differ within a residue in real files; the parser must
	// still commit to the first atom's value.
	text := atomLine("1", "10.5") + "\n" + atomLine("1", "99.9") + "\n"

	got, err := ParsePLDDT(text)
	if err != nil {
		t.Fatalf("ParsePLDDT: %v", err)
	}
	if len(got) != 1 || got[0] != 10.5 {
		t.Errorf("got %v, want [10.5]", got)
	}
}

func TestParsePLDDTRevisitedResidue(t *testing.T) {
	// Change detection is sequential; a residue index seen again after an
	// intervening one starts a new entry.
	text := strings.Join([]string{
		atomLine("1", "20.0"),
		atomLine("2", "30.0"),
		atomLine("1", "40.0"),
	}, "\n")

	got, err := ParsePLDDT(text)
	if err != nil {
		t.Fatalf("ParsePLDDT: %v", err)
	}
	want := []float64{20.0, 30.0, 40.0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("plddts[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParsePLDDTBoundaryScores(t *testing.T) {
	text := atomLine("1", "0.0") + "\n" + atomLine("2", "100.0") + "\n"

	got, err := ParsePLDDT(text)
	if err != nil {
		t.Fatalf("ParsePLDDT: %v", err)
	}
	if len(got) != 2 || got[0] != 0.0 || got[1] != 100.0 {
		t.Errorf("got %v, want [0 100]", got)
	}
}

func TestParsePLDDTNoAtomLines(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"headers only", "data_AF-TEST-F1\n#\n_entry.id AF-TEST-F1\n"},
		{"blank lines", "\n\n\n"},
		{"hetatm only", "HETATM 1 ZN ZN . ZN B 2 . ? 0.0 0.0 0.0 1.0 99.9 ? 101 ZN B ZN 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePLDDT(tt.text)
			if err != nil {
				t.Fatalf("ParsePLDDT: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("got %v, want empty", got)
			}
		})
	}
}

func TestParsePLDDTMalformedRecords(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{"zero residue", atomLine("0", "50.0"), "not positive"},
		{"negative residue", atomLine("-3", "50.0"), "not positive"},
		{"non-integer residue", atomLine("x", "50.0"), "not an integer"},
		{"non-numeric score", atomLine("1", "abc"), "not a number"},
		{"score above range", atomLine("1", "100.01"), "outside [0, 100]"},
		{"score below range", atomLine("1", "-0.5"), "outside [0, 100]"},
		{"nan score", atomLine("1", "NaN"), "outside [0, 100]"},
		{"infinite score", atomLine("1", "Inf"), "outside [0, 100]"},
		{"truncated record", "ATOM 1 N N . ALA A 1 1 ? 0.0", "fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePLDDT(tt.text)
			if err == nil {
				t.Fatalf("expected error, got %v", got)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
			if got != nil {
				t.Errorf("scores should be nil on error, got %v", got)
			}
		})
	}
}

func TestParsePLDDTErrorAfterValidPrefix(t *testing.T) {
	text := atomLine("1", "50.0") + "\n" + atomLine("2", "250.0") + "\n"

	_, err := ParsePLDDT(text)
	if err == nil {
		t.Fatal("expected error for out-of-range score after valid records")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %q, should name line 2", err.Error())
	}
}

func TestParsePLDDTTabSeparated(t *testing.T) {
	text := strings.ReplaceAll(atomLine("1", "88.8"), " ", "\t")

	got, err := ParsePLDDT(text)
	if err != nil {
		t.Fatalf("ParsePLDDT: %v", err)
	}
	if len(got) != 1 || got[0] != 88.8 {
		t.Errorf("got %v, want [88.8]", got)
	}
}
