// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package research

import (
	"context"
	"errors"
	"time"

	"github.com/motiongranted/citeverify/caselaw"
	"github.com/motiongranted/citeverify/logger"
	"github.com/motiongranted/citeverify/metrics"
)

const (
	// DefaultAttemptBudget bounds how many alternative queries a retry run
	// will actually execute.
	DefaultAttemptBudget = 3
	// DefaultAttemptTimeout races each search attempt; a timeout is
	// treated identically to a network error.
	DefaultAttemptTimeout = 5 * time.Second

	defaultSearchPageSize = 10
)

// Searcher is the subset of the case-law client the retry engine needs.
type Searcher interface {
	Search(ctx context.Context, query, jurisdiction string, maxResults int) ([]caselaw.Candidate, error)
}

// RetryEngine re-runs a failed or thin batch with progressively more
// general queries.
type RetryEngine struct {
	cfg      *ElementConfig
	searcher Searcher
	logger   logger.Logger
	metrics  metrics.Metrics

	attemptBudget  int
	attemptTimeout time.Duration
	pageSize       int
}

// NewRetryEngine creates a RetryEngine. log and m may be nil.
func NewRetryEngine(cfg *ElementConfig, searcher Searcher, log logger.Logger, m metrics.Metrics) *RetryEngine {
	return &RetryEngine{
		cfg:            cfg,
		searcher:       searcher,
		logger:         log,
		metrics:        m,
		attemptBudget:  DefaultAttemptBudget,
		attemptTimeout: DefaultAttemptTimeout,
		pageSize:       defaultSearchPageSize,
	}
}

// RetryBatch tries alternative queries strictly in priority order until one
// yields at least one usable candidate or the budget is exhausted. Returns
// the scored candidates of the first successful attempt, or nil when every
// attempt came up empty. A circuit-open error aborts the run immediately;
// there is no point burning the remaining attempts against a tripped
// breaker.
func (e *RetryEngine) RetryBatch(ctx context.Context, batch *Batch) ([]ScoredCandidate, error) {
	alternatives := GenerateAlternativeQueries(e.cfg, batch.Element, batch.Query, batch.Jurisdiction)
	if len(alternatives) > e.attemptBudget {
		alternatives = alternatives[:e.attemptBudget]
	}

	for _, alternative := range alternatives {
		if e.metrics != nil {
			e.metrics.IncrementQueryRetries(string(alternative.Strategy))
		}

		candidates, err := e.searchWithTimeout(ctx, alternative.Query, batch.Jurisdiction)
		if err != nil {
			if errors.Is(err, caselaw.ErrCircuitOpen) || ctx.Err() != nil {
				return nil, err
			}
			if e.logger != nil {
				e.logger.Warn("retry search attempt failed",
					"element", batch.Element,
					"strategy", string(alternative.Strategy),
					"error", err.Error())
			}
			continue
		}
		if len(candidates) == 0 {
			continue
		}

		scored := make([]ScoredCandidate, 0, len(candidates))
		for _, candidate := range candidates {
			scored = append(scored, ScoredCandidate{
				Candidate:      candidate,
				RelevanceScore: e.cfg.KeywordRelevance(batch.Element, candidate.CaseName+" "+candidate.Snippet),
				SearchElement:  batch.Element,
				SearchBatchID:  batch.ID,
				Tier:           SearchTier2,
			})
		}
		if e.logger != nil {
			e.logger.Info("retry search recovered candidates",
				"element", batch.Element,
				"strategy", string(alternative.Strategy),
				"candidates", len(scored))
		}
		return scored, nil
	}

	return nil, nil
}

// searchWithTimeout bounds one attempt; first to settle wins.
func (e *RetryEngine) searchWithTimeout(ctx context.Context, query, jurisdiction string) ([]caselaw.Candidate, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.attemptTimeout)
	defer cancel()
	return e.searcher.Search(attemptCtx, query, jurisdiction, e.pageSize)
}
