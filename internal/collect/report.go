// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/afdb-harvester/internal/dataset"
	"github.com/pdiddy/afdb-harvester/pkg/types"
)

// Run outcomes recorded in the report.
const (
	OutcomeCompleted = "completed"
	OutcomeRecovered = "recovered"
)

// RunReport is the on-disk record of one collection run, written next to
// the dataset so an operator can see what the last run did without
// replaying logs.
type RunReport struct {
	Outcome  string       `yaml:"outcome"`
	Dataset  string       `yaml:"dataset"`
	Input    int          `yaml:"input"`
	Unique   int          `yaml:"unique"`
	Seen     int          `yaml:"seen"`
	Queried  int          `yaml:"queried"`
	Added    int          `yaml:"added"`
	Skipped  []string     `yaml:"skipped,omitempty"`
	Statuses map[int]int  `yaml:"statuses,omitempty"`
	Error    string       `yaml:"error,omitempty"`
	Started  time.Time    `yaml:"started"`
	Duration string       `yaml:"duration"`
	Config   ReportConfig `yaml:"config"`
}

// ReportConfig stores the query settings the run used.
type ReportConfig struct {
	Retries        int    `yaml:"retries"`
	Backoff        string `yaml:"backoff"`
	Timeout        string `yaml:"timeout"`
	FetchStructure bool   `yaml:"fetch_structure"`
}

// ReportPath derives the report location from the dataset path, e.g.
// data/afdb_plddt.report.yaml for data/afdb_plddt.csv.
func ReportPath(datasetPath string) string {
	return strings.TrimSuffix(datasetPath, filepath.Ext(datasetPath)) + ".report.yaml"
}

// WriteReport saves a run report to path.
func WriteReport(path string, r RunReport) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a previously written run report.
func ReadReport(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run report: %w", err)
	}
	var r RunReport
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing run report: %w", err)
	}
	return &r, nil
}

// writeRunReport is best-effort: a report that cannot be written is logged
// and otherwise ignored.
func writeRunReport(store dataset.Store, cfg types.CollectConfig, s Summary, runErr error, logger *slog.Logger) {
	r := RunReport{
		Outcome:  OutcomeCompleted,
		Dataset:  store.Path(),
		Input:    s.Input,
		Unique:   s.Unique,
		Seen:     s.Seen,
		Queried:  s.Queried,
		Added:    s.Added,
		Skipped:  s.Skipped,
		Statuses: s.Statuses,
		Started:  s.Started,
		Duration: s.Duration.String(),
		Config: ReportConfig{
			Retries:        cfg.Retries,
			Backoff:        cfg.Backoff.String(),
			Timeout:        cfg.Timeout.String(),
			FetchStructure: cfg.FetchStructure,
		},
	}
	if runErr != nil {
		r.Outcome = OutcomeRecovered
		r.Error = runErr.Error()
	}

	if err := WriteReport(ReportPath(store.Path()), r); err != nil {
		logger.Warn("run report write failed", "err", err)
	}
}
