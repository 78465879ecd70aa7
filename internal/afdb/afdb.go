// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package afdb queries the AlphaFold Protein Structure Database for
// per-accession predictions and reduces them to per-residue confidence
// records.
package afdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pdiddy/afdb-harvester/internal/cif"
	"github.com/pdiddy/afdb-harvester/internal/httputil"
	"github.com/pdiddy/afdb-harvester/pkg/types"
)

// predictionAPIBase is the AlphaFold DB prediction endpoint. Declared as a
// var so tests can substitute an httptest server.
var predictionAPIBase = "https://alphafold.ebi.ac.uk/api/prediction/"

// StatusNone marks a result whose metadata request never produced an HTTP
// status: the request was not attempted, or every attempt failed at the
// transport level.
const StatusNone = -1

// Prediction is one entry of the prediction payload the metadata endpoint
// returns for an accession. Only Sequence and CIFURL drive the pipeline;
// the remaining fields are carried through for downstream consumers.
type Prediction struct {
	EntryID                string `json:"entryId"`
	UniProtAccession       string `json:"uniprotAccession"`
	UniProtDescription     string `json:"uniprotDescription"`
	TaxID                  int    `json:"taxId"`
	OrganismScientificName string `json:"organismScientificName"`
	Sequence               string `json:"sequence"`
	CIFURL                 string `json:"cifUrl"`
	PDBURL                 string `json:"pdbUrl"`
	ModelCreatedDate       string `json:"modelCreatedDate"`
	LatestVersion          int    `json:"latestVersion"`
}

// QueryResult is the per-accession outcome of one query. It is created
// fresh per call and never mutated afterwards. Fields beyond StatusCode
// and Accession are populated only as far as the query progressed.
type QueryResult struct {
	// StatusCode is the metadata request's HTTP status, or StatusNone.
	StatusCode int `json:"statusCode"`

	// Accession is the identifier the query ran under.
	Accession string `json:"accession"`

	// Sequence is the predicted structure's residue sequence; empty when
	// the metadata payload had none.
	Sequence string `json:"sequence,omitempty"`

	// PLDDTs holds one confidence score per residue. Non-nil only when the
	// model file was fetched and parsed, in which case
	// len(PLDDTs) == len(Sequence) always holds.
	PLDDTs []float64 `json:"plddts,omitempty"`

	// Metadata is the first prediction entry of the payload, nil when the
	// metadata request failed or decoded to nothing.
	Metadata *Prediction `json:"metadata,omitempty"`

	// CIFText is the raw model file text, retained for downstream use but
	// kept out of serialized results.
	CIFText string `json:"-"`
}

// Query runs the full pipeline for one accession: metadata fetch, model
// file fetch, confidence extraction, and the sequence-length consistency
// check. Recoverable conditions (non-200 status, transport failure after
// all retries, missing payload fields) are contained: they produce a
// partial QueryResult, a warning log, and a nil error so bulk callers can
// move on. A non-nil error means the call hit a data-consistency violation
// (model text that does not parse, or a score count that contradicts the
// sequence length) or the context was cancelled; both must halt the caller.
//
// At most two network requests are made per call, each with its own retry
// budget from cfg.
func Query(ctx context.Context, client *http.Client, accession string, cfg types.QueryConfig, logger *slog.Logger) (QueryResult, error) {
	res := QueryResult{StatusCode: StatusNone, Accession: accession}

	resp, err := httputil.GetWithRetry(ctx, client, predictionAPIBase+accession, cfg.UserAgent, cfg.Retries, cfg.Backoff)
	if err != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("querying %s: %w", accession, err)
		}
		logger.Warn("metadata request failed", "accession", accession, "err", err)
		return res, nil
	}
	res.StatusCode = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		logger.Warn("metadata request not OK", "accession", accession, "status", resp.StatusCode)
		return res, nil
	}

	var preds []Prediction
	if err := json.Unmarshal(resp.Body, &preds); err != nil {
		logger.Warn("undecodable metadata payload", "accession", accession, "err", err)
		return res, nil
	}
	if len(preds) == 0 {
		logger.Warn("metadata payload holds no predictions", "accession", accession)
		return res, nil
	}
	res.Metadata = &preds[0]

	if res.Metadata.Sequence == "" {
		logger.Warn("prediction has no sequence", "accession", accession)
		return res, nil
	}
	res.Sequence = res.Metadata.Sequence

	if !cfg.FetchStructure {
		return res, nil
	}

	if res.Metadata.CIFURL == "" {
		logger.Warn("prediction has no model file URL", "accession", accession)
		return res, nil
	}

	cifResp, err := httputil.GetWithRetry(ctx, client, res.Metadata.CIFURL, cfg.UserAgent, cfg.Retries, cfg.Backoff)
	if err != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("querying %s: %w", accession, err)
		}
		logger.Warn("model file request failed", "accession", accession, "err", err)
		return res, nil
	}
	if cifResp.StatusCode != http.StatusOK {
		logger.Warn("model file request not OK", "accession", accession, "status", cifResp.StatusCode)
		return res, nil
	}
	res.CIFText = string(cifResp.Body)

	plddts, err := cif.ParsePLDDT(res.CIFText)
	if err != nil {
		return res, fmt.Errorf("parsing model file for %s: %w", accession, err)
	}
	if len(plddts) != len(res.Sequence) {
		return res, fmt.Errorf("%s: %d residue scores for a %d-residue sequence", accession, len(plddts), len(res.Sequence))
	}
	res.PLDDTs = plddts

	return res, nil
}
