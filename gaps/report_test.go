// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package gaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motiongranted/citeverify/grading"
)

func TestBuildReport(t *testing.T) {
	resolutions := []*Resolution{
		{Gap: Gap{Element: "non_solicitation"}, Resolved: true},
		{
			Gap:           Gap{Element: "legitimate_business_interest", Section: "Argument", LineNumber: 40},
			Resolved:      false,
			FailureReason: "no verified citation found",
		},
	}
	verdict := &grading.HardRuleResult{
		Violations: []grading.Violation{{Rule: grading.RuleSectionFloor, Message: "section scored 62"}},
		Warnings:   []grading.Violation{{Rule: grading.RuleTierAVerbosity, Message: "repetitive"}},
	}

	report := BuildReport(resolutions, verdict)

	assert.True(t, report.NeedsAttention())
	assert.Equal(t, 1, report.ResolvedGaps)
	require.Len(t, report.UnresolvedGaps, 1)
	assert.Equal(t, "legitimate_business_interest", report.UnresolvedGaps[0].Element)
	require.Len(t, report.Violations, 1)
	require.Len(t, report.Warnings, 1)

	rendered := report.Render()
	assert.Contains(t, rendered, "ATTORNEY INFORMATION SHEET")
	assert.Contains(t, rendered, "legitimate_business_interest")
	assert.Contains(t, rendered, "Argument, line 40")
	assert.Contains(t, rendered, "[R2]")
	assert.Contains(t, rendered, "[R5]")
}

func TestBuildReport_Clean(t *testing.T) {
	report := BuildReport([]*Resolution{{Gap: Gap{Element: "duty_of_loyalty"}, Resolved: true}}, nil)

	assert.False(t, report.NeedsAttention())
	assert.Contains(t, report.Render(), "No outstanding items")
}
