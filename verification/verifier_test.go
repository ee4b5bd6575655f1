// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motiongranted/citeverify/caselaw"
)

type fakeAPI struct {
	existence    *caselaw.ExistenceResult
	existenceErr error
	opinion      *caselaw.OpinionResult
	opinionErr   error

	existenceCalls int
	opinionCalls   int
}

func (f *fakeAPI) CheckExistence(_ context.Context, _ string) (*caselaw.ExistenceResult, error) {
	f.existenceCalls++
	return f.existence, f.existenceErr
}

func (f *fakeAPI) RetrieveOpinion(_ context.Context, _ string) (*caselaw.OpinionResult, error) {
	f.opinionCalls++
	return f.opinion, f.opinionErr
}

func foundExistence() *caselaw.ExistenceResult {
	return &caselaw.ExistenceResult{
		Found: true,
		Candidates: []caselaw.Candidate{
			{ClusterID: "42", CaseName: "Smith v. Jones"},
		},
	}
}

func TestVerify_BothStagesSucceed(t *testing.T) {
	api := &fakeAPI{
		existence: foundExistence(),
		opinion:   &caselaw.OpinionResult{Retrieved: true, PlainText: "The court holds..."},
	}
	verifier := NewVerifier(api, nil, nil)

	result, err := verifier.Verify(context.Background(), "123 So. 3d 456")
	require.NoError(t, err)
	assert.Equal(t, StageOneFound, result.Stage1Result)
	assert.Equal(t, StageTwoRetrieved, result.Stage2Result)
	assert.Equal(t, StatusVerified, result.Status)
	assert.Equal(t, "42", result.ClusterID)
	assert.Equal(t, "Smith v. Jones", result.CaseName)
	assert.True(t, result.Verified())
}

func TestVerify_NotFoundIsTerminal(t *testing.T) {
	api := &fakeAPI{existence: &caselaw.ExistenceResult{Found: false}}
	verifier := NewVerifier(api, nil, nil)

	result, err := verifier.Verify(context.Background(), "999 Fake 123")
	require.NoError(t, err)
	assert.Equal(t, StageOneNotFound, result.Stage1Result)
	assert.Equal(t, StatusNotFound, result.Status)
	assert.Equal(t, StageTwoSkipped, result.Stage2Result)
	assert.Zero(t, api.opinionCalls, "NOT_FOUND must not attempt retrieval")
}

func TestVerify_RetrievalMissingTextIsWebOnly(t *testing.T) {
	api := &fakeAPI{
		existence: foundExistence(),
		opinion:   &caselaw.OpinionResult{Retrieved: false},
	}
	verifier := NewVerifier(api, nil, nil)

	result, err := verifier.Verify(context.Background(), "123 So. 3d 456")
	require.NoError(t, err)
	assert.Equal(t, StatusVerifiedWebOnly, result.Status)
	assert.Equal(t, StageTwoNotRetrieved, result.Stage2Result)
	assert.True(t, result.Verified())
}

func TestVerify_StageOneErrorStaysPending(t *testing.T) {
	api := &fakeAPI{existenceErr: errors.New("upstream hiccup")}
	verifier := NewVerifier(api, nil, nil)

	result, err := verifier.Verify(context.Background(), "123 So. 3d 456")
	require.NoError(t, err, "transient stage-1 errors are not hard failures")
	assert.Equal(t, StageOneError, result.Stage1Result)
	assert.Equal(t, StatusPending, result.Status)
	assert.Contains(t, result.Details, "upstream hiccup")
}

func TestVerify_StageTwoErrorIsWebOnly(t *testing.T) {
	api := &fakeAPI{
		existence:  foundExistence(),
		opinionErr: errors.New("fetch failed"),
	}
	verifier := NewVerifier(api, nil, nil)

	result, err := verifier.Verify(context.Background(), "123 So. 3d 456")
	require.NoError(t, err)
	assert.Equal(t, StageTwoError, result.Stage2Result)
	assert.Equal(t, StatusVerifiedWebOnly, result.Status, "stage-1 found is never contradicted by a stage-2 failure")
}

func TestVerify_CircuitOpenPropagates(t *testing.T) {
	api := &fakeAPI{existenceErr: caselaw.ErrCircuitOpen}
	verifier := NewVerifier(api, nil, nil)

	result, err := verifier.Verify(context.Background(), "123 So. 3d 456")
	require.ErrorIs(t, err, caselaw.ErrCircuitOpen)
	assert.Equal(t, StatusPending, result.Status)
}

func TestVerifyAll_StopsOnCircuitOpen(t *testing.T) {
	api := &fakeAPI{existenceErr: caselaw.ErrCircuitOpen}
	verifier := NewVerifier(api, nil, nil)

	results, err := verifier.VerifyAll(context.Background(), []string{"a", "b", "c"})
	require.ErrorIs(t, err, caselaw.ErrCircuitOpen)
	assert.Len(t, results, 1, "an open circuit stops the run instead of hammering the breaker")
}

func TestApplyHoldingResult(t *testing.T) {
	tests := []struct {
		name    string
		status  Status
		holding HoldingResult
		want    Status
	}{
		{"match keeps verified", StatusVerified, HoldingMatch, StatusVerified},
		{"partial downgrades", StatusVerified, HoldingPartial, StatusHoldingPartial},
		{"mismatch downgrades", StatusVerified, HoldingMismatch, StatusHoldingMismatch},
		{"web-only can mismatch", StatusVerifiedWebOnly, HoldingMismatch, StatusHoldingMismatch},
		{"not-found is immutable", StatusNotFound, HoldingMatch, StatusNotFound},
		{"pending is immutable", StatusPending, HoldingMismatch, StatusPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := &Result{Status: tc.status}
			ApplyHoldingResult(result, tc.holding)
			assert.Equal(t, tc.want, result.Status)
		})
	}
}
