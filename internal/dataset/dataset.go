// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset persists collected protein records. The dataset is a
// full-table snapshot keyed by accession, stored either as a CSV file or
// an SQLite database, with a CSV recovery location beside the primary.
package dataset

import (
	"context"
	"fmt"

	"github.com/pdiddy/afdb-harvester/pkg/types"
)

// Store is a full-snapshot view of the collected dataset: load everything,
// persist everything. Implementations keep at most one row per accession.
type Store interface {
	// Load reads all persisted rows. A store that does not exist yet
	// loads zero rows.
	Load(ctx context.Context) ([]types.Protein, error)

	// Persist writes the complete row set to the primary location,
	// replacing its previous content.
	Persist(ctx context.Context, rows []types.Protein) error

	// PersistRecovery writes the row set to the recovery location. The
	// primary location is not touched.
	PersistRecovery(ctx context.Context, rows []types.Protein) error

	// Path returns the primary location.
	Path() string

	// RecoveryPath returns the recovery location.
	RecoveryPath() string

	// Close releases any resources held open for the primary location.
	Close() error
}

// Open returns the store for the configured backend and dataset path.
func Open(cfg types.CollectConfig) (Store, error) {
	switch cfg.Backend {
	case types.BackendSQLite:
		return OpenSQLite(cfg.DatasetPath)
	case types.BackendCSV, "":
		return NewCSVStore(cfg.DatasetPath), nil
	default:
		return nil, fmt.Errorf("unknown dataset backend %q", cfg.Backend)
	}
}
