package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/pdiddy/afdb-harvester/pkg/types"
)

func inputCmd(path string) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("input", path, "")
	return cmd
}

func TestLoadInputUsesConfiguredColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.csv")
	// No uniprot_id column, so only the configured one can resolve.
	if err := os.WriteFile(path, []byte("acc,gene\nP69905,HBA1\nP68871,HBB\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := types.CollectConfig{InputColumn: "acc"}
	got, err := loadInput(inputCmd(path), nil, cfg)
	if err != nil {
		t.Fatalf("loadInput: %v", err)
	}
	if len(got) != 2 || got[0] != "P69905" || got[1] != "P68871" {
		t.Errorf("loadInput = %v, want [P69905 P68871]", got)
	}
}

func TestLoadInputMergesFileAndArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	if err := os.WriteFile(path, []byte("P69905\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := loadInput(inputCmd(path), []string{"P02008"}, types.CollectConfig{})
	if err != nil {
		t.Fatalf("loadInput: %v", err)
	}
	if len(got) != 2 || got[0] != "P69905" || got[1] != "P02008" {
		t.Errorf("loadInput = %v, want file entries before arguments", got)
	}
}

func TestLoadInputRequiresAccessions(t *testing.T) {
	if _, err := loadInput(inputCmd(""), nil, types.CollectConfig{}); err == nil {
		t.Fatal("expected an error with no accessions from any source")
	}
}
