// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package research

import (
	"github.com/google/uuid"

	"github.com/motiongranted/citeverify/caselaw"
	"github.com/motiongranted/citeverify/motion"
)

// SearchTier records which pass produced a candidate.
type SearchTier string

const (
	SearchTier1         SearchTier = "tier1"
	SearchTier2         SearchTier = "tier2"
	SearchTierCrossFill SearchTier = "cross_fill"
)

// BatchStatus tracks a batch through the research phase.
type BatchStatus string

const (
	BatchStatusPending  BatchStatus = "PENDING"
	BatchStatusComplete BatchStatus = "COMPLETE"
	// BatchStatusResearchGap marks a batch that exhausted every retry
	// without a single candidate. Recorded loudly, never silently dropped,
	// so downstream phases and audit logs see it failed deliberately.
	BatchStatusResearchGap BatchStatus = "RESEARCH_GAP"
)

// ScoredCandidate is a search hit augmented with a relevance score and
// provenance. Cross-batch fills keep SearchElement/SearchBatchID pointing at
// the batch whose search actually produced them.
type ScoredCandidate struct {
	caselaw.Candidate

	RelevanceScore int        `json:"relevance_score"`
	SearchElement  string     `json:"search_element"`
	SearchBatchID  string     `json:"search_batch_id"`
	Tier           SearchTier `json:"search_tier"`
}

// Batch is one research query for one legal element within one motion and
// jurisdiction. Batches are the unit on which retry and gap-filling
// decisions are made.
type Batch struct {
	ID           string          `json:"id"`
	Element      string          `json:"element"`
	MotionType   string          `json:"motion_type"`
	Tier         motion.Tier     `json:"tier"`
	Jurisdiction string          `json:"jurisdiction"`
	Query        string          `json:"query"`
	Status       BatchStatus     `json:"status"`
	Candidates   []ScoredCandidate `json:"candidates"`
}

// NewBatch creates a pending batch with a fresh id.
func NewBatch(element, motionType string, tier motion.Tier, jurisdiction, query string) *Batch {
	return &Batch{
		ID:           uuid.NewString(),
		Element:      element,
		MotionType:   motionType,
		Tier:         tier,
		Jurisdiction: jurisdiction,
		Query:        query,
		Status:       BatchStatusPending,
	}
}

// HasCluster reports whether the batch already holds a candidate for the
// given cluster id.
func (b *Batch) HasCluster(clusterID string) bool {
	for _, candidate := range b.Candidates {
		if candidate.ClusterID == clusterID {
			return true
		}
	}
	return false
}

// AddOwn appends candidates produced by this batch's own search, scoring
// them against the batch's element and tagging provenance.
func (b *Batch) AddOwn(cfg *ElementConfig, tier SearchTier, candidates []caselaw.Candidate) int {
	added := 0
	for _, candidate := range candidates {
		if candidate.ClusterID != "" && b.HasCluster(candidate.ClusterID) {
			continue
		}
		b.Candidates = append(b.Candidates, ScoredCandidate{
			Candidate:      candidate,
			RelevanceScore: cfg.KeywordRelevance(b.Element, candidate.CaseName+" "+candidate.Snippet),
			SearchElement:  b.Element,
			SearchBatchID:  b.ID,
			Tier:           tier,
		})
		added++
	}
	return added
}
