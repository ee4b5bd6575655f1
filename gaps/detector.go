// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package gaps

import (
	"regexp"
	"strings"

	"github.com/motiongranted/citeverify/logger"
	"github.com/motiongranted/citeverify/metrics"
	"github.com/motiongranted/citeverify/research"
)

// Gap is one located citation placeholder in a draft.
type Gap struct {
	Placeholder string `json:"placeholder"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Context     string `json:"context"`
	Element     string `json:"element"`
	Section     string `json:"section,omitempty"`
	LineNumber  int    `json:"line_number"`
}

var placeholderRegex = regexp.MustCompile(`(?i)\[(?:CITATION\s+NEEDED|CITE|AUTHORITY\s+NEEDED)\]`)

var headingRegex = regexp.MustCompile(`^\s*#{1,6}\s+(.+?)\s*$`)

// contextRadius is how many characters of surrounding text are captured on
// each side of a placeholder. The context drives element inference and the
// derived search query, so it has to be wide enough to catch the sentence
// the missing citation supports.
const contextRadius = 100

// Detector locates citation placeholders in draft text.
type Detector struct {
	cfg     *research.ElementConfig
	logger  logger.Logger
	metrics metrics.Metrics
}

// NewDetector creates a Detector. log and m may be nil.
func NewDetector(cfg *research.ElementConfig, log logger.Logger, m metrics.Metrics) *Detector {
	return &Detector{cfg: cfg, logger: log, metrics: m}
}

// DetectGaps scans a draft for placeholder tokens and returns one Gap per
// occurrence, in document order. The draft itself is never modified.
func (d *Detector) DetectGaps(draft string) []Gap {
	matches := placeholderRegex.FindAllStringIndex(draft, -1)
	if len(matches) == 0 {
		return nil
	}

	sections := sectionIndex(draft)
	var gaps []Gap
	for _, match := range matches {
		start, end := match[0], match[1]
		contextText := surroundingContext(draft, start, end)
		gap := Gap{
			Placeholder: draft[start:end],
			Start:       start,
			End:         end,
			Context:     contextText,
			Element:     d.cfg.InferElement(contextText),
			Section:     sections.sectionAt(start),
			LineNumber:  1 + strings.Count(draft[:start], "\n"),
		}
		gaps = append(gaps, gap)

		if d.metrics != nil {
			d.metrics.IncrementGapsDetected(gap.Element)
		}
		if d.logger != nil {
			d.logger.Debug("citation gap detected",
				"element", gap.Element,
				"section", gap.Section,
				"line", gap.LineNumber)
		}
	}
	return gaps
}

func surroundingContext(draft string, start, end int) string {
	from := start - contextRadius
	if from < 0 {
		from = 0
	}
	to := end + contextRadius
	if to > len(draft) {
		to = len(draft)
	}
	return draft[from:to]
}

// sectionOffsets maps markdown heading positions to their titles so a
// placeholder can be attributed to the section it falls under.
type sectionOffsets struct {
	offsets []int
	titles  []string
}

func sectionIndex(draft string) sectionOffsets {
	var index sectionOffsets
	offset := 0
	for _, line := range strings.Split(draft, "\n") {
		if match := headingRegex.FindStringSubmatch(line); match != nil {
			index.offsets = append(index.offsets, offset)
			index.titles = append(index.titles, match[1])
		}
		offset += len(line) + 1
	}
	return index
}

func (s sectionOffsets) sectionAt(position int) string {
	section := ""
	for i, offset := range s.offsets {
		if offset > position {
			break
		}
		section = s.titles[i]
	}
	return section
}
