// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package afdb

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pdiddy/afdb-harvester/pkg/types"
)

// Bulk walks a list of accessions one query at a time, in list order.
// Network I/O happens inside Next, so consuming k results issues requests
// for exactly the first k accessions, and abandoning the walk early issues
// no further requests. Bulk holds no resumption state; restarting means
// constructing a new one over a fresh list.
//
// Usage follows the scanner pattern:
//
//	b := afdb.NewBulk(ctx, client, accessions, cfg, logger)
//	for b.Next() {
//		res := b.Result()
//		...
//	}
//	if err := b.Err(); err != nil {
//		...
//	}
type Bulk struct {
	ctx        context.Context
	client     *http.Client
	accessions []string
	cfg        types.QueryConfig
	logger     *slog.Logger

	pos int
	cur QueryResult
	err error
}

// NewBulk prepares a walk over accessions. No query runs until Next.
func NewBulk(ctx context.Context, client *http.Client, accessions []string, cfg types.QueryConfig, logger *slog.Logger) *Bulk {
	return &Bulk{ctx: ctx, client: client, accessions: accessions, cfg: cfg, logger: logger}
}

// Next runs the query for the next accession and reports whether a result
// is available. It returns false when the list is exhausted or a query
// failed fatally; the two cases are told apart by Err.
func (b *Bulk) Next() bool {
	if b.err != nil || b.pos >= len(b.accessions) {
		return false
	}

	res, err := Query(b.ctx, b.client, b.accessions[b.pos], b.cfg, b.logger)
	b.pos++
	if err != nil {
		b.err = err
		return false
	}
	b.cur = res
	return true
}

// Result returns the result produced by the most recent successful Next.
func (b *Bulk) Result() QueryResult {
	return b.cur
}

// Err returns the fatal error that stopped the walk, or nil after a
// complete pass.
func (b *Bulk) Err() error {
	return b.err
}
