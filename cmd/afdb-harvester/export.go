package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/afdb-harvester/internal/dataset"
	"github.com/pdiddy/afdb-harvester/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dataset to JSON or YAML",
	Long: `Export dumps the collected dataset as a JSON or YAML document, by
default next to the dataset file itself.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("output", defaultDataset, "dataset file")
	exportCmd.Flags().String("backend", "", "dataset backend: csv or sqlite (default: by file extension)")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("to", "", "export file (default: dataset path with the format's extension)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	datasetPath := stringSetting(cmd, "output")
	cfg := types.CollectConfig{
		DatasetPath: datasetPath,
		Backend:     resolveBackend(cmd, datasetPath),
	}

	store, err := dataset.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}

	format := stringSetting(cmd, "format")
	target := stringSetting(cmd, "to")
	if target == "" {
		ext := "." + format
		if format == "" {
			ext = ".yaml"
		}
		target = strings.TrimSuffix(datasetPath, filepath.Ext(datasetPath)) + ext
	}

	switch format {
	case "yaml", "":
		if err := dataset.ExportYAML(target, rows); err != nil {
			return err
		}
	case "json":
		if err := dataset.ExportJSON(target, rows); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported %d row(s) to %s\n", len(rows), target)
	return nil
}
