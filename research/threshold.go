// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package research

import "github.com/motiongranted/citeverify/motion"

// Base candidate-count thresholds per tier. Tier A is absent: tier A
// never requires supplemental research.
var baseThresholds = map[motion.Tier]int{
	motion.TierB: 2,
	motion.TierC: 3,
	motion.TierD: 3,
}

// ThresholdDecision is the result of a low-result sufficiency check.
type ThresholdDecision struct {
	NeedsSupplemental  bool
	EffectiveThreshold int
	CoreElement        bool
}

// CheckLowResultThreshold decides whether a batch's candidate count is
// sufficient. Peripheral legal points need less authority than dispositive
// ones, so elements outside the motion type's core list get a threshold
// relaxed by one.
func (c *ElementConfig) CheckLowResultThreshold(element string, candidateCount int, tier motion.Tier, motionType string) ThresholdDecision {
	core := c.IsCoreElement(motionType, element)

	if tier == motion.TierA {
		return ThresholdDecision{NeedsSupplemental: false, EffectiveThreshold: 0, CoreElement: core}
	}

	threshold, ok := baseThresholds[tier]
	if !ok {
		threshold = baseThresholds[motion.TierC]
	}
	if !core {
		threshold--
	}

	return ThresholdDecision{
		NeedsSupplemental:  candidateCount < threshold,
		EffectiveThreshold: threshold,
		CoreElement:        core,
	}
}
