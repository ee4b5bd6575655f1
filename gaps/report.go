// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package gaps

import (
	"fmt"
	"strings"
	"time"

	"github.com/motiongranted/citeverify/grading"
)

// Report is the attorney information sheet: the human-facing audit
// artifact delivered alongside a motion, listing everything that needs
// manual attention before filing.
type Report struct {
	GeneratedAt    time.Time           `json:"generated_at"`
	UnresolvedGaps []UnresolvedGap     `json:"unresolved_gaps"`
	ResolvedGaps   int                 `json:"resolved_gaps"`
	Violations     []grading.Violation `json:"hard_rule_violations,omitempty"`
	Warnings       []grading.Violation `json:"hard_rule_warnings,omitempty"`
}

// UnresolvedGap is one manual-completion item on the sheet.
type UnresolvedGap struct {
	Section       string `json:"section,omitempty"`
	LineNumber    int    `json:"line_number"`
	Element       string `json:"element"`
	Context       string `json:"context"`
	FailureReason string `json:"failure_reason"`
}

// NeedsAttention reports whether the sheet lists anything an attorney must
// act on.
func (r *Report) NeedsAttention() bool {
	return len(r.UnresolvedGaps) > 0 || len(r.Violations) > 0 || len(r.Warnings) > 0
}

// BuildReport assembles the sheet from gap resolutions and an optional
// hard-rule verdict.
func BuildReport(resolutions []*Resolution, verdict *grading.HardRuleResult) *Report {
	report := &Report{GeneratedAt: time.Now().UTC()}

	for _, resolution := range resolutions {
		if resolution.Resolved {
			report.ResolvedGaps++
			continue
		}
		report.UnresolvedGaps = append(report.UnresolvedGaps, UnresolvedGap{
			Section:       resolution.Gap.Section,
			LineNumber:    resolution.Gap.LineNumber,
			Element:       resolution.Gap.Element,
			Context:       resolution.Gap.Context,
			FailureReason: resolution.FailureReason,
		})
	}

	if verdict != nil {
		report.Violations = verdict.Violations
		report.Warnings = verdict.Warnings
	}
	return report
}

// Render produces the plain-text sheet.
func (r *Report) Render() string {
	var b strings.Builder
	b.WriteString("ATTORNEY INFORMATION SHEET\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339))

	if !r.NeedsAttention() {
		b.WriteString("No outstanding items. All citation gaps were resolved and no hard rules were triggered.\n")
		return b.String()
	}

	if len(r.UnresolvedGaps) > 0 {
		fmt.Fprintf(&b, "UNRESOLVED CITATION GAPS (%d) - placeholders remain in the draft:\n", len(r.UnresolvedGaps))
		for i, gap := range r.UnresolvedGaps {
			location := fmt.Sprintf("line %d", gap.LineNumber)
			if gap.Section != "" {
				location = fmt.Sprintf("%s, line %d", gap.Section, gap.LineNumber)
			}
			fmt.Fprintf(&b, "  %d. [%s] %s\n     %s\n", i+1, gap.Element, location, gap.FailureReason)
		}
		b.WriteString("\n")
	}

	if len(r.Violations) > 0 {
		fmt.Fprintf(&b, "HARD RULE VIOLATIONS (%d) - the draft was overridden to fail:\n", len(r.Violations))
		for _, violation := range r.Violations {
			fmt.Fprintf(&b, "  [%s] %s\n", violation.Rule, violation.Message)
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "WARNINGS (%d) - review recommended:\n", len(r.Warnings))
		for _, warning := range r.Warnings {
			fmt.Fprintf(&b, "  [%s] %s\n", warning.Rule, warning.Message)
		}
	}

	return b.String()
}
