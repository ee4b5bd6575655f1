// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package gaps

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/motiongranted/citeverify/caselaw"
	"github.com/motiongranted/citeverify/logger"
	"github.com/motiongranted/citeverify/metrics"
	"github.com/motiongranted/citeverify/research"
	"github.com/motiongranted/citeverify/verification"
)

const (
	// maxQueriesPerGap bounds supplemental searches per gap per revision
	// loop.
	maxQueriesPerGap = 3
	// searchTimeout races each supplemental search.
	searchTimeout = 5 * time.Second

	searchPageSize   = 5
	contextTermCount = 5
)

// CitationVerifier runs the existence and retrieval stages for one citation.
type CitationVerifier interface {
	Verify(ctx context.Context, citationText string) (*verification.Result, error)
}

// VerifiedCitation pairs a search candidate with its verification record.
type VerifiedCitation struct {
	Candidate    caselaw.Candidate    `json:"candidate"`
	Verification *verification.Result `json:"verification"`
}

// Resolution is the outcome of attempting to fill one gap. When Resolved is
// false the placeholder stays in the draft; nothing is ever silently
// deleted.
type Resolution struct {
	Gap            Gap                `json:"gap"`
	Resolved       bool               `json:"resolved"`
	CitationsFound []VerifiedCitation `json:"citations_found"`
	QueriesTried   []string           `json:"queries_tried"`
	FailureReason  string             `json:"failure_reason,omitempty"`
}

// Resolver performs bounded supplemental research for detected gaps. Every
// accepted citation has passed both verification stages; an unverified
// snippet is never substituted into a draft.
type Resolver struct {
	cfg      *research.ElementConfig
	searcher research.Searcher
	verifier CitationVerifier
	logger   logger.Logger
	metrics  metrics.Metrics
}

// NewResolver creates a Resolver. log and m may be nil.
func NewResolver(cfg *research.ElementConfig, searcher research.Searcher, verifier CitationVerifier, log logger.Logger, m metrics.Metrics) *Resolver {
	return &Resolver{
		cfg:      cfg,
		searcher: searcher,
		verifier: verifier,
		logger:   log,
		metrics:  m,
	}
}

// ResolveGap runs up to maxQueriesPerGap searches for one gap, sequentially
// to respect the external client's rate limits, stopping at the first query
// that yields at least one verified citation. A circuit-open or canceled
// context aborts and is returned; the resolution still records what was
// tried.
func (r *Resolver) ResolveGap(ctx context.Context, gap Gap, jurisdiction string) (*Resolution, error) {
	resolution := &Resolution{Gap: gap, CitationsFound: []VerifiedCitation{}}

	for _, query := range r.buildQueries(gap, jurisdiction) {
		resolution.QueriesTried = append(resolution.QueriesTried, query)

		candidates, err := r.searchWithTimeout(ctx, query, jurisdiction)
		if err != nil {
			if errors.Is(err, caselaw.ErrCircuitOpen) || ctx.Err() != nil {
				resolution.FailureReason = "search aborted: " + err.Error()
				r.recordOutcome(resolution)
				return resolution, err
			}
			if r.logger != nil {
				r.logger.Warn("gap search failed", "element", gap.Element, "error", err.Error())
			}
			continue
		}

		verified, err := r.verifyCandidates(ctx, candidates)
		if err != nil {
			resolution.FailureReason = "verification aborted: " + err.Error()
			r.recordOutcome(resolution)
			return resolution, err
		}
		if len(verified) > 0 {
			resolution.Resolved = true
			resolution.CitationsFound = verified
			r.recordOutcome(resolution)
			return resolution, nil
		}
	}

	resolution.FailureReason = fmt.Sprintf("no verified citation found for element %q after %d searches",
		gap.Element, len(resolution.QueriesTried))
	r.recordOutcome(resolution)
	return resolution, nil
}

// ResolveAll resolves gaps in document order. A returned error means the
// run stopped early; resolutions for already-processed gaps are still
// returned.
func (r *Resolver) ResolveAll(ctx context.Context, gaps []Gap, jurisdiction string) ([]*Resolution, error) {
	resolutions := make([]*Resolution, 0, len(gaps))
	for _, gap := range gaps {
		resolution, err := r.ResolveGap(ctx, gap, jurisdiction)
		resolutions = append(resolutions, resolution)
		if err != nil {
			return resolutions, err
		}
	}
	return resolutions, nil
}

// buildQueries assembles the per-element hand-authored queries plus one
// query derived from the gap's own context, capped at maxQueriesPerGap.
// The context query goes last: the authored queries encode known-good
// search phrasing, the derived one is a best-effort fallback.
func (r *Resolver) buildQueries(gap Gap, jurisdiction string) []string {
	var queries []string
	for _, query := range r.cfg.FallbackQueries[gap.Element] {
		if len(queries) == maxQueriesPerGap-1 {
			break
		}
		queries = append(queries, query)
	}
	if derived := r.contextQuery(gap, jurisdiction); derived != "" {
		queries = append(queries, derived)
	}
	if len(queries) > maxQueriesPerGap {
		queries = queries[:maxQueriesPerGap]
	}
	return queries
}

var termRegex = regexp.MustCompile(`[A-Za-z][A-Za-z'\-]+`)

// contextQuery extracts the most frequent non-stopword terms from the gap
// context and appends the jurisdiction.
func (r *Resolver) contextQuery(gap Gap, jurisdiction string) string {
	cleaned := placeholderRegex.ReplaceAllString(gap.Context, " ")

	counts := map[string]int{}
	order := map[string]int{}
	for i, term := range termRegex.FindAllString(strings.ToLower(cleaned), -1) {
		if r.cfg.IsStopword(term) || len(term) < 3 {
			continue
		}
		counts[term]++
		if _, seen := order[term]; !seen {
			order[term] = i
		}
	}
	if len(counts) == 0 {
		return ""
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return order[terms[i]] < order[terms[j]]
	})
	if len(terms) > contextTermCount {
		terms = terms[:contextTermCount]
	}

	return strings.TrimSpace(strings.Join(terms, " ") + " " + jurisdiction)
}

func (r *Resolver) searchWithTimeout(ctx context.Context, query, jurisdiction string) ([]caselaw.Candidate, error) {
	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()
	return r.searcher.Search(searchCtx, query, jurisdiction, searchPageSize)
}

func (r *Resolver) verifyCandidates(ctx context.Context, candidates []caselaw.Candidate) ([]VerifiedCitation, error) {
	var verified []VerifiedCitation
	for _, candidate := range candidates {
		citationText := candidate.Citation
		if citationText == "" {
			citationText = candidate.CaseName
		}
		result, err := r.verifier.Verify(ctx, citationText)
		if err != nil {
			return nil, err
		}
		if result.Verified() {
			verified = append(verified, VerifiedCitation{Candidate: candidate, Verification: result})
		}
	}
	return verified, nil
}

func (r *Resolver) recordOutcome(resolution *Resolution) {
	if r.metrics != nil {
		r.metrics.IncrementGapsResolved(resolution.Resolved)
	}
	if r.logger == nil {
		return
	}
	if resolution.Resolved {
		r.logger.Info("citation gap resolved",
			"element", resolution.Gap.Element,
			"citations", len(resolution.CitationsFound),
			"queries", len(resolution.QueriesTried))
	} else {
		r.logger.Warn("citation gap unresolved",
			"element", resolution.Gap.Element,
			"reason", resolution.FailureReason)
	}
}
