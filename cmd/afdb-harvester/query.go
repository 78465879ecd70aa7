package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/afdb-harvester/internal/afdb"
	"github.com/pdiddy/afdb-harvester/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [accessions...]",
	Short: "Query AlphaFold DB for individual accessions",
	Long: `Query runs the fetch-and-parse pipeline for each accession and prints a
per-accession summary without touching any dataset. Accessions that miss
(unknown to AlphaFold DB, or unreachable) are reported with their status
and skipped.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	queryCmd.Flags().Int("retries", defaultRetries, "attempts per HTTP request")
	queryCmd.Flags().Duration("backoff", defaultBackoff, "pause between attempts of one request")
	queryCmd.Flags().Bool("skip-structures", false, "fetch metadata only, no model files")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more UniProt accessions")
	}

	cfg := types.QueryConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   durationSetting(cmd, "timeout"),
			UserAgent: defaultUserAgent,
		},
		Retries:        intSetting(cmd, "retries"),
		Backoff:        durationSetting(cmd, "backoff"),
		FetchStructure: !boolSetting(cmd, "skip-structures"),
	}
	client := &http.Client{Timeout: cfg.Timeout}

	bulk := afdb.NewBulk(cmd.Context(), client, args, cfg, logger)
	var results []afdb.QueryResult
	for bulk.Next() {
		results = append(results, bulk.Result())
	}
	if err := bulk.Err(); err != nil {
		return err
	}

	if boolSetting(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-6s  %-8s  %-10s  %s\n",
		"Accession", "Status", "Length", "Mean pLDDT", "Entry")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 62))

	for _, r := range results {
		status := "-"
		if r.StatusCode != afdb.StatusNone {
			status = fmt.Sprintf("%d", r.StatusCode)
		}
		mean := "-"
		if len(r.PLDDTs) > 0 {
			m, _, _ := scoreStats(r.PLDDTs)
			mean = fmt.Sprintf("%.2f", m)
		}
		entry := "-"
		if r.Metadata != nil && r.Metadata.EntryID != "" {
			entry = r.Metadata.EntryID
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-6s  %-8d  %-10s  %s\n",
			r.Accession, status, len(r.Sequence), mean, entry)
	}

	fmt.Fprintf(os.Stdout, "\n%d result(s)\n", len(results))
	return nil
}
