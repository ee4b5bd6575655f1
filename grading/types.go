// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package grading

// SectionGrade is the structured grading output for one section of a draft.
type SectionGrade struct {
	Name                 string   `json:"name"`
	Score                float64  `json:"score"`
	Grade                string   `json:"grade"`
	CitationCount        int      `json:"citation_count"`
	AuthorityAppropriate bool     `json:"authority_appropriate"`
	Deficiencies         []string `json:"deficiencies,omitempty"`
}

// Result is one full grading pass over a draft.
type Result struct {
	OverallScore float64        `json:"overall_score"`
	Sections     []SectionGrade `json:"sections"`
}

// LoopComparison carries what changed since the previous revision loop.
// FixedDeficiencies counts prior-loop deficiencies the revision actually
// addressed; UnfixedDeficiencies counts the ones still present.
type LoopComparison struct {
	PreviousScore       float64 `json:"previous_score"`
	FixedDeficiencies   int     `json:"fixed_deficiencies"`
	UnfixedDeficiencies int     `json:"unfixed_deficiencies"`
}

// RuleID identifies a hard rule.
type RuleID string

const (
	// RuleZeroCitationArgument fails any substantive argument section
	// with zero citations and inappropriate authority.
	RuleZeroCitationArgument RuleID = "R1"
	// RuleSectionFloor fails a passing aggregate that hides a section
	// scored below the floor.
	RuleSectionFloor RuleID = "R2"
	// RuleGradeInflation fails an unearned score jump between revision
	// loops.
	RuleGradeInflation RuleID = "R3"
	// RuleTierAVerbosity is advisory only: repeated verbosity complaints
	// on a Tier A motion warrant manual review.
	RuleTierAVerbosity RuleID = "R5"
)

// Violation is one triggered rule with its human-readable explanation.
type Violation struct {
	Rule    RuleID `json:"rule"`
	Message string `json:"message"`
}

// HardRuleResult is the gate's verdict over a grading result. The
// OverriddenToFail flag is authoritative for pass/fail; AdjustedScore is
// for display and audit only.
type HardRuleResult struct {
	OverriddenToFail bool        `json:"overridden_to_fail"`
	AdjustedScore    float64     `json:"adjusted_score"`
	AdjustedPasses   bool        `json:"adjusted_passes"`
	Violations       []Violation `json:"violations,omitempty"`
	Warnings         []Violation `json:"warnings,omitempty"`
}
