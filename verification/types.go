// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package verification

// StageOneResult is the outcome of the existence check against the
// case-law database.
type StageOneResult string

const (
	StageOneFound    StageOneResult = "found"
	StageOneNotFound StageOneResult = "not_found"
	StageOneError    StageOneResult = "error"
)

// StageTwoResult is the outcome of the opinion-text retrieval.
type StageTwoResult string

const (
	StageTwoRetrieved    StageTwoResult = "retrieved"
	StageTwoNotRetrieved StageTwoResult = "not_retrieved"
	StageTwoError        StageTwoResult = "error"
	StageTwoSkipped      StageTwoResult = "skipped"
)

// Status is the resolved verification status of a citation.
type Status string

const (
	// StatusPending is the initial state. Stage-1 errors stay here because
	// an existence-check error is typically a transient API issue, not
	// proof of non-existence.
	StatusPending Status = "PENDING"
	// StatusNotFound is terminal: the existence check affirmatively failed.
	StatusNotFound Status = "NOT_FOUND"
	// StatusVerified means both existence and opinion retrieval succeeded.
	StatusVerified Status = "VERIFIED"
	// StatusVerifiedWebOnly means existence was confirmed but the full text
	// was unavailable. A weaker but acceptable verification.
	StatusVerifiedWebOnly Status = "VERIFIED_WEB_ONLY"
	// StatusHoldingMismatch and StatusHoldingPartial are set from the
	// externally computed stage-3 holding check.
	StatusHoldingMismatch Status = "HOLDING_MISMATCH"
	StatusHoldingPartial  Status = "HOLDING_PARTIAL"
)

// HoldingResult is the stage-3 outcome supplied by the external
// holding-check phase. It is consumed here, never computed.
type HoldingResult string

const (
	HoldingMatch    HoldingResult = "match"
	HoldingPartial  HoldingResult = "partial"
	HoldingMismatch HoldingResult = "mismatch"
)

// Result is the per-citation verification record.
type Result struct {
	CitationText string         `json:"citation_text"`
	ClusterID    string         `json:"cluster_id,omitempty"`
	CaseName     string         `json:"case_name,omitempty"`
	Stage1Result StageOneResult `json:"stage1_result"`
	Stage2Result StageTwoResult `json:"stage2_result"`
	Status       Status         `json:"verification_status"`
	OpinionText  string         `json:"-"`
	Details      string         `json:"details,omitempty"`
}

// Verified reports whether the citation reached an acceptable verification
// (full or web-only).
func (r *Result) Verified() bool {
	return r.Status == StatusVerified || r.Status == StatusVerifiedWebOnly
}
