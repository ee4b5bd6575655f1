// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/motiongranted/citeverify/caselaw"
	"github.com/motiongranted/citeverify/logger"
	"github.com/motiongranted/citeverify/metrics"
)

// CaseLawAPI is the subset of the case-law client the verifier needs.
type CaseLawAPI interface {
	CheckExistence(ctx context.Context, citationText string) (*caselaw.ExistenceResult, error)
	RetrieveOpinion(ctx context.Context, clusterID string) (*caselaw.OpinionResult, error)
}

// Verifier drives a citation through existence and retrieval. The holding
// check (stage 3) is computed externally and applied via ApplyHoldingResult.
//
// The design is deliberately tri-stage: the database can confirm a citation
// exists (cheap, reliable) before committing to the more expensive opinion
// fetch, and a text-retrieval failure is an infrastructure problem, not
// evidence the citation doesn't exist.
type Verifier struct {
	api     CaseLawAPI
	logger  logger.Logger
	metrics metrics.Metrics
}

// NewVerifier creates a Verifier. log and m may be nil.
func NewVerifier(api CaseLawAPI, log logger.Logger, m metrics.Metrics) *Verifier {
	return &Verifier{api: api, logger: log, metrics: m}
}

// Verify runs stages 1 and 2 for a single citation. Stage errors are folded
// into the returned Result; the error return is reserved for circuit-open
// and context cancellation, where continuing with more citations is
// pointless.
func (v *Verifier) Verify(ctx context.Context, citationText string) (*Result, error) {
	result := &Result{
		CitationText: citationText,
		Stage1Result: StageOneError,
		Stage2Result: StageTwoSkipped,
		Status:       StatusPending,
	}

	existence, err := v.api.CheckExistence(ctx, citationText)
	if err != nil {
		if errors.Is(err, caselaw.ErrCircuitOpen) || ctx.Err() != nil {
			return result, err
		}
		// Transient API trouble: stay PENDING so the citation can be
		// re-verified later rather than condemned.
		result.Details = fmt.Sprintf("existence check error: %v", err)
		v.finish(result)
		return result, nil
	}

	if !existence.Found {
		result.Stage1Result = StageOneNotFound
		result.Status = StatusNotFound
		v.finish(result)
		return result, nil
	}

	result.Stage1Result = StageOneFound
	if len(existence.Candidates) > 0 {
		result.ClusterID = existence.Candidates[0].ClusterID
		result.CaseName = existence.Candidates[0].CaseName
	}

	if result.ClusterID == "" {
		// Existence confirmed but no cluster to fetch text for.
		result.Stage2Result = StageTwoNotRetrieved
		result.Status = StatusVerifiedWebOnly
		v.finish(result)
		return result, nil
	}

	opinion, err := v.api.RetrieveOpinion(ctx, result.ClusterID)
	if err != nil {
		if errors.Is(err, caselaw.ErrCircuitOpen) || ctx.Err() != nil {
			// Stage 1 already confirmed existence; keep that.
			result.Stage2Result = StageTwoError
			result.Status = StatusVerifiedWebOnly
			v.finish(result)
			return result, err
		}
		result.Stage2Result = StageTwoError
		result.Status = StatusVerifiedWebOnly
		result.Details = fmt.Sprintf("opinion retrieval error: %v", err)
		v.finish(result)
		return result, nil
	}

	if !opinion.Retrieved {
		result.Stage2Result = StageTwoNotRetrieved
		result.Status = StatusVerifiedWebOnly
		v.finish(result)
		return result, nil
	}

	result.Stage2Result = StageTwoRetrieved
	result.Status = StatusVerified
	result.OpinionText = opinion.PlainText
	v.finish(result)
	return result, nil
}

// VerifyAll verifies citations sequentially, sharing the rate-limited
// client. A circuit-open error stops the run and returns the results
// gathered so far.
func (v *Verifier) VerifyAll(ctx context.Context, citationTexts []string) ([]*Result, error) {
	results := make([]*Result, 0, len(citationTexts))
	for _, text := range citationTexts {
		result, err := v.Verify(ctx, text)
		results = append(results, result)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (v *Verifier) finish(result *Result) {
	if v.metrics != nil {
		v.metrics.IncrementVerificationStatus(string(result.Status))
	}
	if v.logger != nil {
		v.logger.Debug("citation verification resolved",
			"citation", result.CitationText,
			"stage1", string(result.Stage1Result),
			"stage2", string(result.Stage2Result),
			"status", string(result.Status))
	}
}

// ApplyHoldingResult folds the externally computed stage-3 outcome into a
// result. Only acceptably verified citations can move; a holding check
// never resurrects NOT_FOUND or downgrades to it.
func ApplyHoldingResult(result *Result, holding HoldingResult) {
	if !result.Verified() {
		return
	}
	switch holding {
	case HoldingMatch:
		// Status stands.
	case HoldingPartial:
		result.Status = StatusHoldingPartial
	case HoldingMismatch:
		result.Status = StatusHoldingMismatch
	}
}
