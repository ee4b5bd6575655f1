// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package gaps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motiongranted/citeverify/research"
)

const sampleDraft = `# Memorandum in Support

## Argument

### A. Non-Solicitation

Defendant agreed not to solicit plaintiff's customers for two years. Such non-solicit covenants
are enforceable when properly limited. [CITATION NEEDED]

### B. Protectable Interest

Plaintiff built customer relationships and goodwill, a protectable business
interest under Louisiana law. [CITE]
`

func TestDetectGaps_InfersElements(t *testing.T) {
	detector := NewDetector(research.DefaultElementConfig(), nil, nil)

	gaps := detector.DetectGaps(sampleDraft)

	require.Len(t, gaps, 2)

	assert.Equal(t, "[CITATION NEEDED]", gaps[0].Placeholder)
	assert.Equal(t, "non_solicitation", gaps[0].Element)
	assert.Contains(t, gaps[0].Context, "non-solicit covenants")
	assert.Equal(t, "A. Non-Solicitation", gaps[0].Section)

	assert.Equal(t, "[CITE]", gaps[1].Placeholder)
	assert.Equal(t, "legitimate_business_interest", gaps[1].Element)
	assert.Contains(t, gaps[1].Context, "customer relationships")
	assert.Equal(t, "B. Protectable Interest", gaps[1].Section)

	assert.Less(t, gaps[0].Start, gaps[1].Start, "gaps are returned in document order")
}

func TestDetectGaps_CaseInsensitiveVariants(t *testing.T) {
	detector := NewDetector(research.DefaultElementConfig(), nil, nil)

	gaps := detector.DetectGaps("The covenant is enforceable. [citation needed] It binds. [Authority Needed]")

	require.Len(t, gaps, 2)
	assert.Equal(t, "[citation needed]", gaps[0].Placeholder)
	assert.Equal(t, "[Authority Needed]", gaps[1].Placeholder)
}

func TestDetectGaps_UnknownElementFallback(t *testing.T) {
	detector := NewDetector(research.DefaultElementConfig(), nil, nil)

	gaps := detector.DetectGaps("The weather that day was unremarkable. [CITE]")

	require.Len(t, gaps, 1)
	assert.Equal(t, research.UnknownElement, gaps[0].Element)
}

func TestDetectGaps_ContextBounded(t *testing.T) {
	detector := NewDetector(research.DefaultElementConfig(), nil, nil)
	padding := strings.Repeat("x", 500)
	draft := padding + " [CITE] " + padding

	gaps := detector.DetectGaps(draft)

	require.Len(t, gaps, 1)
	// 100 chars each side plus the placeholder itself.
	assert.LessOrEqual(t, len(gaps[0].Context), 200+len("[CITE]")+2)
	assert.Contains(t, gaps[0].Context, "[CITE]")
}

func TestDetectGaps_NoPlaceholders(t *testing.T) {
	detector := NewDetector(research.DefaultElementConfig(), nil, nil)
	assert.Empty(t, detector.DetectGaps("A complete draft with every citation in place."))
}

func TestDetectGaps_Idempotent(t *testing.T) {
	detector := NewDetector(research.DefaultElementConfig(), nil, nil)

	first := detector.DetectGaps(sampleDraft)
	second := detector.DetectGaps(sampleDraft)

	assert.Equal(t, first, second)
}

func TestDetectGaps_LineNumbers(t *testing.T) {
	detector := NewDetector(research.DefaultElementConfig(), nil, nil)

	gaps := detector.DetectGaps("line one\nline two [CITE]\nline three")

	require.Len(t, gaps, 1)
	assert.Equal(t, 2, gaps[0].LineNumber)
}
