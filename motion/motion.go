// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package motion

// Tier is the motion complexity/price class. It governs verification
// strictness, supplemental-research thresholds, and revision economics.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Common motion types as used by the order pipeline.
const (
	TypePreliminaryInjunction = "preliminary_injunction"
	TypeSummaryJudgment       = "summary_judgment"
	TypeMotionToCompel        = "motion_to_compel"
	TypeMotionToDismiss       = "motion_to_dismiss"
	TypeTemporaryRestraining  = "temporary_restraining_order"
)

// PassingThreshold returns the grading score a motion of the given tier
// must reach to pass.
func PassingThreshold(t Tier) float64 {
	if t == TierA {
		return 83
	}
	return 87
}
