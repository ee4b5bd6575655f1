// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package research

import (
	"context"

	"github.com/motiongranted/citeverify/logger"
	"github.com/motiongranted/citeverify/metrics"
)

// Recovery drives a batch through the documented recovery ordering:
//
//	zero results  -> cross-batch fill (no I/O) -> retry engine -> RESEARCH_GAP
//	thin results  -> supplemental retry, deduplicated merge
//
// Reusing already-fetched, already-relevant case law is strictly cheaper
// and faster than a new search, so the fill always runs first.
type Recovery struct {
	cfg     *ElementConfig
	engine  *RetryEngine
	filler  *GapFiller
	logger  logger.Logger
	metrics metrics.Metrics
}

// NewRecovery wires the retry engine and gap filler for one research run.
func NewRecovery(cfg *ElementConfig, searcher Searcher, log logger.Logger, m metrics.Metrics) *Recovery {
	return &Recovery{
		cfg:     cfg,
		engine:  NewRetryEngine(cfg, searcher, log, m),
		filler:  NewGapFiller(cfg, log, m),
		logger:  log,
		metrics: m,
	}
}

// RecoverBatch resolves an unsatisfactory batch in place. siblings are the
// other batches from the same research run. A returned error means the run
// should stop (circuit open or canceled context); the batch is still left
// in a truthful state.
func (r *Recovery) RecoverBatch(ctx context.Context, batch *Batch, siblings []*Batch) error {
	if len(batch.Candidates) == 0 {
		return r.recoverEmptyBatch(ctx, batch, siblings)
	}

	decision := r.cfg.CheckLowResultThreshold(batch.Element, len(batch.Candidates), batch.Tier, batch.MotionType)
	if !decision.NeedsSupplemental {
		batch.Status = BatchStatusComplete
		return nil
	}

	if r.logger != nil {
		r.logger.Info("batch below threshold, running supplemental research",
			"element", batch.Element,
			"candidates", len(batch.Candidates),
			"threshold", decision.EffectiveThreshold,
			"core", decision.CoreElement)
	}

	supplemental, err := r.engine.RetryBatch(ctx, batch)
	if err != nil {
		// Keep what the batch already has; thin authority beats none.
		batch.Status = BatchStatusComplete
		return err
	}
	MergeSupplemental(batch, supplemental)
	batch.Status = BatchStatusComplete
	return nil
}

func (r *Recovery) recoverEmptyBatch(ctx context.Context, batch *Batch, siblings []*Batch) error {
	fills := r.filler.FillFromAdjacentBatches(batch, siblings)
	if len(fills) > 0 {
		MergeSupplemental(batch, fills)
		batch.Status = BatchStatusComplete
		return nil
	}

	recovered, err := r.engine.RetryBatch(ctx, batch)
	if err != nil {
		r.markResearchGap(batch)
		return err
	}
	if len(recovered) == 0 {
		r.markResearchGap(batch)
		return nil
	}

	MergeSupplemental(batch, recovered)
	batch.Status = BatchStatusComplete
	return nil
}

func (r *Recovery) markResearchGap(batch *Batch) {
	batch.Status = BatchStatusResearchGap
	if r.metrics != nil {
		r.metrics.IncrementResearchGaps(batch.Element)
	}
	if r.logger != nil {
		r.logger.Warn("batch exhausted all retries without candidates",
			"element", batch.Element,
			"batch_id", batch.ID)
	}
}
