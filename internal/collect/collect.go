// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect runs the resumable bulk harvest: it filters out
// accessions already in the dataset, drives the per-accession queries,
// and persists the merged row set, saving partial progress when a run
// dies mid-way.
package collect

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/pdiddy/afdb-harvester/internal/afdb"
	"github.com/pdiddy/afdb-harvester/internal/dataset"
	"github.com/pdiddy/afdb-harvester/pkg/types"
)

// Summary holds counts from one collection run.
type Summary struct {
	// Input is the number of accessions supplied, duplicates included.
	Input int

	// Unique is the number of distinct accessions supplied.
	Unique int

	// Seen is how many distinct accessions were already in the dataset
	// and therefore not re-queried.
	Seen int

	// Queried is how many queries actually ran.
	Queried int

	// Added is how many rows this run appended.
	Added int

	// Skipped lists accessions dropped on a non-success status, in
	// processing order.
	Skipped []string

	// Statuses tallies executed queries per HTTP status code.
	Statuses map[int]int

	// Started and Duration time the run.
	Started  time.Time
	Duration time.Duration
}

// Collect harvests every accession in input that the store does not
// already hold, in ascending accession order, and persists the merged row
// set back to the store. Re-running with the same input and store is
// idempotent: nothing is pending, so no network traffic happens and the
// dataset content is unchanged.
//
// Per-accession failures (non-success status, missing payload fields) only
// skip that accession. A fatal error aborts the walk: the rows accumulated
// so far, pre-existing ones included, are saved to the store's recovery
// location and the error is returned, leaving the primary location as it
// was. A failed recovery save is logged but never displaces the original
// error. Either way a run report lands next to the dataset.
func Collect(ctx context.Context, client *http.Client, input []string, store dataset.Store, cfg types.CollectConfig, logger *slog.Logger) (Summary, error) {
	started := time.Now()

	existing, err := store.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("loading dataset: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for _, row := range existing {
		seen[row.Accession] = true
	}

	// unique(input) minus seen, sorted for a deterministic walk.
	uniq := make(map[string]bool, len(input))
	var pending []string
	for _, acc := range input {
		if uniq[acc] {
			continue
		}
		uniq[acc] = true
		if !seen[acc] {
			pending = append(pending, acc)
		}
	}
	sort.Strings(pending)

	summary := Summary{
		Input:    len(input),
		Unique:   len(uniq),
		Seen:     len(uniq) - len(pending),
		Statuses: make(map[int]int),
		Started:  started,
	}

	logger.Info("collection starting",
		"input", summary.Input, "seen", summary.Seen, "pending", len(pending), "dataset", store.Path())

	rows := append([]types.Protein(nil), existing...)
	bulk := afdb.NewBulk(ctx, client, pending, cfg.QueryConfig, logger)

	for i := 0; i < len(pending); i++ {
		if i > 0 && cfg.QueryDelay > 0 {
			time.Sleep(cfg.QueryDelay)
		}
		if !bulk.Next() {
			break
		}
		res := bulk.Result()
		summary.Queried++
		summary.Statuses[res.StatusCode]++
		logger.Info("queried accession",
			"accession", res.Accession, "status", res.StatusCode,
			"progress", fmt.Sprintf("%d/%d", i+1, len(pending)))

		if res.StatusCode != http.StatusOK || res.Sequence == "" {
			// No row without usable data; the accession stays out of the
			// seen set so a later run retries it.
			summary.Skipped = append(summary.Skipped, res.Accession)
			continue
		}
		rows = append(rows, types.Protein{
			Accession: res.Accession,
			NResidues: len(res.Sequence),
			Sequence:  res.Sequence,
			PLDDTs:    res.PLDDTs,
		})
		summary.Added++
	}

	summary.Duration = time.Since(started)

	if err := bulk.Err(); err != nil {
		logger.Error("collection failed, saving partial progress",
			"err", err, "rows", len(rows), "recovery", store.RecoveryPath())
		if saveErr := store.PersistRecovery(ctx, rows); saveErr != nil {
			logger.Error("recovery save failed", "err", saveErr, "path", store.RecoveryPath())
		} else {
			logger.Info("partial progress saved", "path", store.RecoveryPath(), "rows", len(rows))
		}
		writeRunReport(store, cfg, summary, err, logger)
		return summary, fmt.Errorf("collecting: %w", err)
	}

	if err := store.Persist(ctx, rows); err != nil {
		return summary, fmt.Errorf("persisting dataset: %w", err)
	}
	logger.Info("collection complete",
		"queried", summary.Queried, "added", summary.Added,
		"skipped", len(summary.Skipped), "total", len(rows))

	writeRunReport(store, cfg, summary, nil, logger)
	return summary, nil
}
