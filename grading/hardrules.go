// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package grading

import (
	"fmt"
	"strings"

	"github.com/motiongranted/citeverify/logger"
	"github.com/motiongranted/citeverify/metrics"
	"github.com/motiongranted/citeverify/motion"
)

const (
	// sectionScoreFloor is the per-section score below which a passing
	// aggregate is overridden. 70 corresponds to a C grade.
	sectionScoreFloor = 70.0

	// Score deltas between revision loops that trigger the inflation
	// guard: a hard fail when nothing was fixed, a warning when the
	// jump is large but some deficiencies were addressed.
	inflationHardDelta    = 3.0
	inflationWarningDelta = 5.0

	// tierAVerbosityCount is how many verbosity-flavored deficiencies a
	// Tier A motion tolerates before a manual-review warning.
	tierAVerbosityCount = 2
)

// Section names that mark substantive legal argument. A zero-citation
// section matching one of these is a categorical defect no numeric average
// is allowed to hide.
var argumentSectionMarkers = []string{"argument", "legal", "analysis", "discussion"}

var verbosityMarkers = []string{"repetit", "verbos", "redundan"}

// Engine applies the hard pass/fail rules that numeric grading alone
// cannot guarantee. Rules only ever lower a pass to a fail; a failing
// score is never raised.
type Engine struct {
	logger  logger.Logger
	metrics metrics.Metrics
}

// NewEngine creates a hard-rule engine. log and m may be nil.
func NewEngine(log logger.Logger, m metrics.Metrics) *Engine {
	return &Engine{logger: log, metrics: m}
}

// Apply evaluates every hard rule against a grading result. loopNumber is
// the 1-based revision loop; prior may be nil on the first loop and is
// required for the inflation guard to fire.
func (e *Engine) Apply(result Result, tier motion.Tier, loopNumber int, prior *LoopComparison) HardRuleResult {
	var violations, warnings []Violation

	violations = append(violations, e.checkZeroCitationArgument(result)...)
	violations = append(violations, e.checkSectionFloor(result, tier)...)

	inflationViolation, inflationWarning := e.checkGradeInflation(result, loopNumber, prior)
	violations = append(violations, inflationViolation...)
	warnings = append(warnings, inflationWarning...)

	warnings = append(warnings, e.checkTierAVerbosity(result, tier)...)

	threshold := motion.PassingThreshold(tier)
	verdict := HardRuleResult{
		AdjustedScore:  result.OverallScore,
		AdjustedPasses: result.OverallScore >= threshold,
		Violations:     violations,
		Warnings:       warnings,
	}

	if len(violations) > 0 {
		verdict.OverriddenToFail = true
		verdict.AdjustedPasses = false
		if verdict.AdjustedScore >= threshold {
			verdict.AdjustedScore = threshold - 1
		}
	}

	for _, violation := range violations {
		if e.metrics != nil {
			e.metrics.IncrementHardRuleViolations(string(violation.Rule))
		}
		if e.logger != nil {
			e.logger.Warn("hard rule violated", "rule", string(violation.Rule), "message", violation.Message)
		}
	}
	for _, warning := range warnings {
		if e.metrics != nil {
			e.metrics.IncrementHardRuleWarnings(string(warning.Rule))
		}
	}

	return verdict
}

func (e *Engine) checkZeroCitationArgument(result Result) []Violation {
	var violations []Violation
	for _, section := range result.Sections {
		if !isArgumentSection(section.Name) {
			continue
		}
		if section.CitationCount == 0 && !section.AuthorityAppropriate {
			violations = append(violations, Violation{
				Rule: RuleZeroCitationArgument,
				Message: fmt.Sprintf("section %q is a substantive argument section with zero citations and lacks appropriate authority",
					section.Name),
			})
		}
	}
	return violations
}

func (e *Engine) checkSectionFloor(result Result, tier motion.Tier) []Violation {
	if result.OverallScore < motion.PassingThreshold(tier) {
		// The aggregate already fails; the floor rule exists to stop a
		// passing average from hiding a failing section.
		return nil
	}
	var violations []Violation
	for _, section := range result.Sections {
		if section.Score < sectionScoreFloor {
			violations = append(violations, Violation{
				Rule: RuleSectionFloor,
				Message: fmt.Sprintf("section %q scored %.0f, below the %.0f floor, despite a passing overall score",
					section.Name, section.Score, sectionScoreFloor),
			})
		}
	}
	return violations
}

func (e *Engine) checkGradeInflation(result Result, loopNumber int, prior *LoopComparison) (violations, warnings []Violation) {
	if loopNumber < 2 || prior == nil {
		return nil, nil
	}
	delta := result.OverallScore - prior.PreviousScore
	if delta > inflationHardDelta && prior.FixedDeficiencies == 0 {
		violations = append(violations, Violation{
			Rule: RuleGradeInflation,
			Message: fmt.Sprintf("score rose %.1f points since the previous loop with zero prior deficiencies fixed",
				delta),
		})
		return violations, nil
	}
	if delta > inflationWarningDelta && prior.UnfixedDeficiencies > 0 {
		warnings = append(warnings, Violation{
			Rule: RuleGradeInflation,
			Message: fmt.Sprintf("score rose %.1f points with %d prior deficiencies still unfixed; review for inflation",
				delta, prior.UnfixedDeficiencies),
		})
	}
	return nil, warnings
}

func (e *Engine) checkTierAVerbosity(result Result, tier motion.Tier) []Violation {
	if tier != motion.TierA {
		return nil
	}
	count := 0
	for _, section := range result.Sections {
		for _, deficiency := range section.Deficiencies {
			if containsAnyMarker(deficiency, verbosityMarkers) {
				count++
			}
		}
	}
	if count < tierAVerbosityCount {
		return nil
	}
	return []Violation{{
		Rule: RuleTierAVerbosity,
		Message: fmt.Sprintf("%d deficiencies cite repetitiveness or verbosity; tier A drafts warrant manual length review",
			count),
	}}
}

func isArgumentSection(name string) bool {
	return containsAnyMarker(name, argumentSectionMarkers)
}

func containsAnyMarker(text string, markers []string) bool {
	lowered := strings.ToLower(text)
	for _, marker := range markers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
