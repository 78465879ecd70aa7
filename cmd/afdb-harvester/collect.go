// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/afdb-harvester/internal/accession"
	"github.com/pdiddy/afdb-harvester/internal/collect"
	"github.com/pdiddy/afdb-harvester/internal/dataset"
	"github.com/pdiddy/afdb-harvester/pkg/types"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultRetries   = 2
	defaultBackoff   = 5 * time.Second
	defaultDataset   = "data/afdb_plddt.csv"
	defaultUserAgent = "afdb-harvester/0.1"
)

var collectCmd = &cobra.Command{
	Use:   "collect [accessions...]",
	Short: "Harvest confidence scores for a batch of accessions",
	Long: `Collect queries AlphaFold DB for every accession not already in the
dataset and persists the merged result. Accessions come from command-line
arguments, an --input file (CSV with a uniprot_id column, or one accession
per line), or both. Accessions the dataset already holds are skipped, so
re-running after a partial or failed run picks up where it left off.

If a run dies mid-way, the rows gathered so far are saved next to the
dataset under a .recovery suffix and the primary file is left untouched.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().String("input", "", "accession list file (CSV or plain text)")
	collectCmd.Flags().String("column", accession.DefaultColumn, "CSV column holding the accessions")
	collectCmd.Flags().String("output", defaultDataset, "dataset file")
	collectCmd.Flags().String("backend", "", "dataset backend: csv or sqlite (default: by file extension)")
	collectCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	collectCmd.Flags().Int("retries", defaultRetries, "attempts per HTTP request")
	collectCmd.Flags().Duration("backoff", defaultBackoff, "pause between attempts of one request")
	collectCmd.Flags().Duration("delay", 0, "pause between consecutive accessions")
	collectCmd.Flags().Bool("skip-structures", false, "fetch metadata only, no model files")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg := collectConfig(cmd)

	input, err := loadInput(cmd, args, cfg)
	if err != nil {
		return err
	}

	store, err := dataset.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client := &http.Client{Timeout: cfg.Timeout}

	summary, err := collect.Collect(cmd.Context(), client, input, store, cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Queried %d accession(s): %d added, %d skipped, %d already present\n",
		summary.Queried, summary.Added, len(summary.Skipped), summary.Seen)
	fmt.Println("Dataset:", store.Path())
	return nil
}

// loadInput merges accessions from the --input file, read through the
// configured column, with any given as arguments.
func loadInput(cmd *cobra.Command, args []string, cfg types.CollectConfig) ([]string, error) {
	input := args
	if path := stringSetting(cmd, "input"); path != "" {
		fromFile, err := accession.Load(path, cfg.InputColumn)
		if err != nil {
			return nil, err
		}
		input = append(fromFile, args...)
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("provide accessions as arguments or via --input")
	}
	return input, nil
}

// collectConfig assembles the run configuration from flags, config file,
// and defaults.
func collectConfig(cmd *cobra.Command) types.CollectConfig {
	datasetPath := stringSetting(cmd, "output")
	return types.CollectConfig{
		QueryConfig: types.QueryConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   durationSetting(cmd, "timeout"),
				UserAgent: defaultUserAgent,
			},
			Retries:        intSetting(cmd, "retries"),
			Backoff:        durationSetting(cmd, "backoff"),
			FetchStructure: !boolSetting(cmd, "skip-structures"),
		},
		DatasetPath: datasetPath,
		Backend:     resolveBackend(cmd, datasetPath),
		InputColumn: stringSetting(cmd, "column"),
		QueryDelay:  durationSetting(cmd, "delay"),
	}
}

// resolveBackend honors an explicit --backend and otherwise infers the
// backend from the dataset file extension.
func resolveBackend(cmd *cobra.Command, datasetPath string) types.DatasetBackend {
	if b := stringSetting(cmd, "backend"); b != "" {
		return types.DatasetBackend(b)
	}
	switch filepath.Ext(datasetPath) {
	case ".db", ".sqlite", ".sqlite3":
		return types.BackendSQLite
	}
	return types.BackendCSV
}
