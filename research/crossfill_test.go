// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motiongranted/citeverify/caselaw"
	"github.com/motiongranted/citeverify/motion"
)

func makeBatch(element string, candidates ...ScoredCandidate) *Batch {
	batch := NewBatch(element, "preliminary_injunction", motion.TierC, "Louisiana", element+" query")
	batch.Candidates = candidates
	return batch
}

func ownCandidate(batch *Batch, clusterID, caseName, snippet string) ScoredCandidate {
	return ScoredCandidate{
		Candidate: caselaw.Candidate{
			ClusterID: clusterID,
			CaseName:  caseName,
			Snippet:   snippet,
		},
		SearchElement: batch.Element,
		SearchBatchID: batch.ID,
		Tier:          SearchTier1,
	}
}

func TestFillFromAdjacentBatches_SalvagesRelevantCandidates(t *testing.T) {
	cfg := DefaultElementConfig()
	filler := NewGapFiller(cfg, nil, nil)

	target := makeBatch("duty_of_loyalty")
	sibling := makeBatch("competing_during_employment")
	sibling.Candidates = []ScoredCandidate{
		ownCandidate(sibling, "100", "Acme v. Doe", "employee breached the duty of loyalty to his employer"),
		ownCandidate(sibling, "200", "Widget Co. v. Roe", "zoning variance dispute"),
	}

	fills := filler.FillFromAdjacentBatches(target, []*Batch{sibling})

	require.Len(t, fills, 1, "only keyword-relevant candidates are salvaged")
	assert.Equal(t, "100", fills[0].ClusterID)
	assert.Equal(t, SearchTierCrossFill, fills[0].Tier)
	assert.Equal(t, "competing_during_employment", fills[0].SearchElement,
		"provenance must trace to the batch that actually produced the candidate")
	assert.Equal(t, sibling.ID, fills[0].SearchBatchID)
	assert.Greater(t, fills[0].RelevanceScore, 0)
}

func TestFillFromAdjacentBatches_IgnoresNonAdjacentElements(t *testing.T) {
	cfg := DefaultElementConfig()
	filler := NewGapFiller(cfg, nil, nil)

	target := makeBatch("duty_of_loyalty")
	unrelated := makeBatch("irreparable_harm")
	unrelated.Candidates = []ScoredCandidate{
		ownCandidate(unrelated, "300", "Loyal v. Fiduciary", "duty of loyalty fiduciary"),
	}

	fills := filler.FillFromAdjacentBatches(target, []*Batch{unrelated})
	assert.Empty(t, fills, "only elements in the adjacency table are scanned")
}

func TestFillFromAdjacentBatches_SkipsExistingAndChainedFills(t *testing.T) {
	cfg := DefaultElementConfig()
	filler := NewGapFiller(cfg, nil, nil)

	sibling := makeBatch("competing_during_employment")
	already := ownCandidate(sibling, "100", "Acme v. Doe", "duty of loyalty")
	chained := ownCandidate(sibling, "101", "Other v. Case", "breach of loyalty fiduciary")
	chained.Tier = SearchTierCrossFill
	sibling.Candidates = []ScoredCandidate{already, chained}

	target := makeBatch("duty_of_loyalty")
	target.Candidates = []ScoredCandidate{ownCandidate(target, "100", "Acme v. Doe", "duty of loyalty")}

	fills := filler.FillFromAdjacentBatches(target, []*Batch{sibling})
	assert.Empty(t, fills, "duplicates and chained fills are never copied")
}

func TestFillFromAdjacentBatches_OrderedByRelevance(t *testing.T) {
	cfg := DefaultElementConfig()
	filler := NewGapFiller(cfg, nil, nil)

	sibling := makeBatch("competing_during_employment")
	sibling.Candidates = []ScoredCandidate{
		ownCandidate(sibling, "1", "Weak v. Match", "loyalty"),
		ownCandidate(sibling, "2", "Strong v. Match", "loyalty fiduciary disloyal conduct"),
	}

	target := makeBatch("duty_of_loyalty")
	fills := filler.FillFromAdjacentBatches(target, []*Batch{sibling})

	require.Len(t, fills, 2)
	assert.Equal(t, "2", fills[0].ClusterID, "higher keyword score sorts first")
}

func TestMergeSupplemental_DeduplicatesByClusterID(t *testing.T) {
	batch := makeBatch("legitimate_business_interest")
	batch.Candidates = []ScoredCandidate{ownCandidate(batch, "existing-1", "Old v. Case", "goodwill")}

	added := MergeSupplemental(batch, []ScoredCandidate{
		ownCandidate(batch, "existing-1", "Old v. Case", "goodwill"),
		ownCandidate(batch, "new-2", "New v. Case", "customer relationships"),
	})

	assert.Equal(t, 1, added)
	require.Len(t, batch.Candidates, 2)
	assert.Equal(t, "new-2", batch.Candidates[1].ClusterID)
}

func TestBatchAddOwn_ScoresAndTagsProvenance(t *testing.T) {
	cfg := DefaultElementConfig()
	batch := makeBatch("duty_of_loyalty")

	added := batch.AddOwn(cfg, SearchTier1, []caselaw.Candidate{
		{ClusterID: "10", CaseName: "Faithless v. Servant", Snippet: "breach of the duty of loyalty"},
	})

	assert.Equal(t, 1, added)
	require.Len(t, batch.Candidates, 1)
	assert.Equal(t, batch.ID, batch.Candidates[0].SearchBatchID)
	assert.Equal(t, "duty_of_loyalty", batch.Candidates[0].SearchElement)
	assert.Greater(t, batch.Candidates[0].RelevanceScore, 0)
}
