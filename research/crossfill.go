// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package research

import (
	"sort"

	"github.com/motiongranted/citeverify/logger"
	"github.com/motiongranted/citeverify/metrics"
)

// GapFiller salvages candidates from semantically adjacent batches before
// the pipeline spends network calls on fresh search. Audit evidence showed
// adjacent batches frequently already contained the missing authority.
type GapFiller struct {
	cfg     *ElementConfig
	logger  logger.Logger
	metrics metrics.Metrics
}

// NewGapFiller creates a GapFiller. log and m may be nil.
func NewGapFiller(cfg *ElementConfig, log logger.Logger, m metrics.Metrics) *GapFiller {
	return &GapFiller{cfg: cfg, logger: log, metrics: m}
}

// FillFromAdjacentBatches scans sibling batches of adjacent elements for
// candidates relevant to the target's element. Matches are returned tagged
// with cross-fill provenance; their SearchElement/SearchBatchID keep
// pointing at the batch whose search actually produced them. Performs no
// I/O.
func (f *GapFiller) FillFromAdjacentBatches(target *Batch, siblings []*Batch) []ScoredCandidate {
	adjacent := f.cfg.Adjacency[target.Element]
	if len(adjacent) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(target.Candidates))
	for _, candidate := range target.Candidates {
		seen[candidate.ClusterID] = true
	}

	var fills []ScoredCandidate
	for _, relatedElement := range adjacent {
		for _, sibling := range siblings {
			if sibling.ID == target.ID || sibling.Element != relatedElement {
				continue
			}
			for _, candidate := range sibling.Candidates {
				// Don't chain fills through batches that were themselves
				// patched from elsewhere.
				if candidate.Tier == SearchTierCrossFill {
					continue
				}
				if candidate.ClusterID == "" || seen[candidate.ClusterID] {
					continue
				}
				score := f.cfg.KeywordRelevance(target.Element, candidate.CaseName+" "+candidate.Snippet)
				if score == 0 {
					continue
				}

				fill := candidate
				fill.Tier = SearchTierCrossFill
				fill.RelevanceScore = score
				fills = append(fills, fill)
				seen[candidate.ClusterID] = true

				if f.metrics != nil {
					f.metrics.IncrementCrossBatchFills(target.Element)
				}
			}
		}
	}

	sort.SliceStable(fills, func(i, j int) bool {
		if fills[i].RelevanceScore != fills[j].RelevanceScore {
			return fills[i].RelevanceScore > fills[j].RelevanceScore
		}
		return fills[i].ClusterID < fills[j].ClusterID
	})

	if len(fills) > 0 && f.logger != nil {
		f.logger.Info("cross-batch fill salvaged candidates",
			"element", target.Element,
			"batch_id", target.ID,
			"candidates", len(fills))
	}
	return fills
}

// MergeSupplemental appends new candidates to a batch, deduplicating by
// cluster id against the existing result set. Returns how many were added.
func MergeSupplemental(batch *Batch, candidates []ScoredCandidate) int {
	added := 0
	for _, candidate := range candidates {
		if candidate.ClusterID != "" && batch.HasCluster(candidate.ClusterID) {
			continue
		}
		batch.Candidates = append(batch.Candidates, candidate)
		added++
	}
	return added
}
