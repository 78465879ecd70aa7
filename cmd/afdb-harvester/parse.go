package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/afdb-harvester/internal/cif"
)

var parseCmd = &cobra.Command{
	Use:   "parse [model-file.cif]",
	Short: "Extract per-residue confidence scores from a local model file",
	Long: `Parse reads a predicted structure file in mmCIF format and prints the
per-residue confidence scores it carries, one per residue in model order.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("json", false, "output the score list as JSON")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one model file")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading model file: %w", err)
	}

	scores, err := cif.ParsePLDDT(string(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	if boolSetting(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scores)
	}

	if len(scores) == 0 {
		fmt.Println("No atom records found.")
		return nil
	}
	mean, min, max := scoreStats(scores)
	fmt.Printf("%d residue(s)\n", len(scores))
	fmt.Printf("pLDDT mean %.2f  min %.2f  max %.2f\n", mean, min, max)
	return nil
}

// scoreStats reduces a non-empty score list to mean, min, and max.
func scoreStats(scores []float64) (mean, min, max float64) {
	min, max = scores[0], scores[0]
	var sum float64
	for _, v := range scores {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return sum / float64(len(scores)), min, max
}
