// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package gaps

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motiongranted/citeverify/caselaw"
	"github.com/motiongranted/citeverify/research"
	"github.com/motiongranted/citeverify/verification"
)

type fakeSearcher struct {
	results   map[string][]caselaw.Candidate
	err       error
	callCount int
	queries   []string
}

func (f *fakeSearcher) Search(_ context.Context, query, _ string, _ int) ([]caselaw.Candidate, error) {
	f.callCount++
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

type fakeVerifier struct {
	statuses  map[string]verification.Status
	err       error
	callCount int
}

func (f *fakeVerifier) Verify(_ context.Context, citationText string) (*verification.Result, error) {
	f.callCount++
	if f.err != nil {
		return nil, f.err
	}
	status, ok := f.statuses[citationText]
	if !ok {
		status = verification.StatusNotFound
	}
	return &verification.Result{CitationText: citationText, Status: status}, nil
}

func solicitationGap() Gap {
	return Gap{
		Placeholder: "[CITATION NEEDED]",
		Context:     "covenants not to solicit customers are enforceable [CITATION NEEDED] under Louisiana law",
		Element:     "non_solicitation",
		LineNumber:  12,
	}
}

func TestResolveGap_FirstVerifiedCitationWins(t *testing.T) {
	cfg := research.DefaultElementConfig()
	searcher := &fakeSearcher{
		results: map[string][]caselaw.Candidate{
			cfg.FallbackQueries["non_solicitation"][0]: {
				{ClusterID: "77", CaseName: "Acme v. Doe", Citation: "934 So. 2d 166"},
			},
		},
	}
	verifier := &fakeVerifier{statuses: map[string]verification.Status{
		"934 So. 2d 166": verification.StatusVerified,
	}}
	resolver := NewResolver(cfg, searcher, verifier, nil, nil)

	resolution, err := resolver.ResolveGap(context.Background(), solicitationGap(), "Louisiana")
	require.NoError(t, err)

	assert.True(t, resolution.Resolved)
	require.Len(t, resolution.CitationsFound, 1)
	assert.Equal(t, "77", resolution.CitationsFound[0].Candidate.ClusterID)
	assert.Equal(t, 1, searcher.callCount, "resolution stops at the first successful query")
}

func TestResolveGap_UnverifiedCandidateNeverAccepted(t *testing.T) {
	cfg := research.DefaultElementConfig()
	candidates := []caselaw.Candidate{{ClusterID: "9", CaseName: "Ghost v. Case", Citation: "1 So. 3d 1"}}
	searcher := &fakeSearcher{results: map[string][]caselaw.Candidate{
		cfg.FallbackQueries["non_solicitation"][0]: candidates,
		cfg.FallbackQueries["non_solicitation"][1]: candidates,
	}}
	// Every verification comes back NOT_FOUND.
	verifier := &fakeVerifier{}
	resolver := NewResolver(cfg, searcher, verifier, nil, nil)

	resolution, err := resolver.ResolveGap(context.Background(), solicitationGap(), "Louisiana")
	require.NoError(t, err)

	assert.False(t, resolution.Resolved)
	assert.Empty(t, resolution.CitationsFound)
	assert.NotEmpty(t, resolution.FailureReason)
	assert.Positive(t, verifier.callCount, "candidates must go through verification before rejection")
}

func TestResolveGap_AllQueriesExhausted(t *testing.T) {
	cfg := research.DefaultElementConfig()
	searcher := &fakeSearcher{}
	verifier := &fakeVerifier{}
	resolver := NewResolver(cfg, searcher, verifier, nil, nil)

	gap := solicitationGap()
	resolution, err := resolver.ResolveGap(context.Background(), gap, "Louisiana")
	require.NoError(t, err)

	assert.False(t, resolution.Resolved)
	assert.Empty(t, resolution.CitationsFound)
	assert.Contains(t, resolution.FailureReason, "non_solicitation")
	assert.LessOrEqual(t, len(resolution.QueriesTried), maxQueriesPerGap)
	assert.Equal(t, gap.Placeholder, resolution.Gap.Placeholder,
		"the placeholder is reported, never deleted")
}

func TestResolveGap_QueryBudgetAndDerivedQuery(t *testing.T) {
	cfg := research.DefaultElementConfig()
	searcher := &fakeSearcher{}
	resolver := NewResolver(cfg, searcher, &fakeVerifier{}, nil, nil)

	resolution, err := resolver.ResolveGap(context.Background(), solicitationGap(), "Louisiana")
	require.NoError(t, err)

	require.Len(t, resolution.QueriesTried, maxQueriesPerGap)
	// Hand-authored queries first, the context-derived one last.
	assert.Equal(t, cfg.FallbackQueries["non_solicitation"][0], resolution.QueriesTried[0])
	assert.Equal(t, cfg.FallbackQueries["non_solicitation"][1], resolution.QueriesTried[1])

	derived := resolution.QueriesTried[2]
	assert.Contains(t, derived, "Louisiana")
	assert.Contains(t, derived, "solicit")
	assert.NotContains(t, derived, "CITATION")
	for _, term := range strings.Fields(derived) {
		assert.False(t, cfg.IsStopword(term), "derived query term %q is a stopword", term)
	}
}

func TestResolveGap_UnknownElementUsesDerivedQueryOnly(t *testing.T) {
	cfg := research.DefaultElementConfig()
	searcher := &fakeSearcher{}
	resolver := NewResolver(cfg, searcher, &fakeVerifier{}, nil, nil)

	gap := Gap{
		Placeholder: "[CITE]",
		Context:     "successor liability attaches when assets transfer [CITE]",
		Element:     research.UnknownElement,
	}

	resolution, err := resolver.ResolveGap(context.Background(), gap, "Louisiana")
	require.NoError(t, err)

	require.Len(t, resolution.QueriesTried, 1)
	assert.Contains(t, resolution.QueriesTried[0], "successor")
}

func TestResolveGap_CircuitOpenAborts(t *testing.T) {
	cfg := research.DefaultElementConfig()
	searcher := &fakeSearcher{err: caselaw.ErrCircuitOpen}
	resolver := NewResolver(cfg, searcher, &fakeVerifier{}, nil, nil)

	resolution, err := resolver.ResolveGap(context.Background(), solicitationGap(), "Louisiana")
	require.ErrorIs(t, err, caselaw.ErrCircuitOpen)

	assert.False(t, resolution.Resolved)
	assert.NotEmpty(t, resolution.FailureReason)
	assert.Equal(t, 1, searcher.callCount)
}

func TestResolveAll_DocumentOrderAndEarlyStop(t *testing.T) {
	cfg := research.DefaultElementConfig()
	searcher := &fakeSearcher{}
	resolver := NewResolver(cfg, searcher, &fakeVerifier{}, nil, nil)

	gaps := []Gap{solicitationGap(), {Element: research.UnknownElement, Context: "asset transfer [CITE]"}}
	resolutions, err := resolver.ResolveAll(context.Background(), gaps, "Louisiana")
	require.NoError(t, err)

	require.Len(t, resolutions, 2)
	assert.False(t, resolutions[0].Resolved)
	assert.False(t, resolutions[1].Resolved)
}
