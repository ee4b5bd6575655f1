// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package citations

import (
	"regexp"
	"sort"
	"strings"
)

// Reporter abbreviations cover the federal reporters plus the regional and
// state reporters that appear in Louisiana practice. The list is matched
// case-sensitively; reporter abbreviations are capitalized in every
// citation style this pipeline sees.
const reporterPattern = `(?:U\.S\.|S\.\s?Ct\.|L\.\s?Ed\.(?:\s?2d)?|F\.(?:2d|3d|4th)?|F\.\s?Supp\.(?:\s?[23]d)?|So\.(?:\s?[23]d)?|La\.|P\.(?:2d|3d)?|S\.W\.(?:2d|3d)?|S\.E\.(?:2d|3d)?|N\.E\.(?:2d|3d)?|N\.W\.(?:2d|3d)?|A\.(?:2d|3d)?)`

// A party name: capitalized tokens plus the lowercase connectors that
// appear in case names ("Board of Supervisors", "State ex rel. ..."). The
// token rule is what keeps a match from bleeding backwards across a
// sentence boundary into ordinary prose.
const (
	partyTokenPattern = `(?:[A-Z][A-Za-z0-9'&.\-]*,?|of|the|and|for|de|du|la|ex|rel\.|&)`
	partyPattern      = `[A-Z][A-Za-z0-9'&.\-]*,?(?:\s+` + partyTokenPattern + `){0,8}?`
)

var (
	fullCaseRegex = regexp.MustCompile(
		`(` + partyPattern + `)\s+v(?:s)?\.\s+(` + partyPattern + `),\s+` +
			`(\d{1,4}\s+` + reporterPattern + `\s+\d{1,5})` +
			`(?:,\s*(\d{1,5}(?:[-–]\d{1,5})?))?` +
			`(?:\s+\(([^)]{1,60})\))?`)

	shortCaseRegex = regexp.MustCompile(
		`([A-Z][A-Za-z0-9'&.\-]+),\s+(\d{1,4}\s+` + reporterPattern + `)\s+at\s+(\d{1,5}(?:[-–]\d{1,5})?)`)

	idRegex = regexp.MustCompile(
		`\b(?:Id\.|Ibid\.)(?:\s+at\s+\d{1,5}(?:[-–]\d{1,5})?)?`)

	supraRegex = regexp.MustCompile(
		`([A-Z][A-Za-z0-9'&.\-]+),\s+supra(?:\s+note\s+\d+)?(?:,?\s+at\s+\d{1,5}(?:[-–]\d{1,5})?)?`)

	statuteRegex = regexp.MustCompile(
		`(?:\bLa\.\s?R\.S\.\s?\d+:\d+(?:\.\d+)?(?:\([A-Za-z0-9]+\))*` +
			`|\bLa\.\s?(?:C\.C\.|Civ\.\s?Code)\s?(?:[Aa]rt\.|[Aa]rticle)\s?\d+(?:\.\d+)?` +
			`|\bLa\.\s?C\.C\.P\.\s?(?:[Aa]rt\.|[Aa]rticle)\s?\d+(?:\.\d+)?` +
			`|\b\d+\s+U\.S\.C\.\s?§+\s?\d+[\w.()-]*` +
			`|§+\s?\d+[\w.:()-]*)`)

	monthDateRegex   = regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}\b`)
	numericDateRegex = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)

	captionVersusRegex = regexp.MustCompile(`(?i)^\s*(.{1,80}?)\s+(?:v(?:s)?\.|versus)\s+(.{1,80}?)\s*$`)
	docketRegex        = regexp.MustCompile(`(?i)\b(?:no\.|docket\s+no\.|case\s+no\.)\s*([\w:.\-]+)`)
)

// ExtractCitations extracts all citations from document text, with absolute
// span offsets into the input. Full case citations are matched first; short
// forms that fall inside a full citation's span are suppressed so "123 So.
// 3d 456" is never double-counted.
func ExtractCitations(text string) []Citation {
	var citations []Citation

	for _, match := range fullCaseRegex.FindAllStringSubmatchIndex(text, -1) {
		citation := Citation{
			Type:     CitationFullCase,
			Value:    strings.TrimSpace(text[match[0]:match[1]]),
			CaseName: group(text, match, 1) + " v. " + group(text, match, 2),
			PinCite:  group(text, match, 4),
			Start:    match[0],
			End:      match[1],
		}
		citations = append(citations, citation)
	}

	citations = appendOutside(citations, text, shortCaseRegex, func(match []int) Citation {
		return Citation{
			Type:     CitationShortCase,
			Value:    strings.TrimSpace(text[match[0]:match[1]]),
			CaseName: group(text, match, 1),
			PinCite:  group(text, match, 3),
			Start:    match[0],
			End:      match[1],
		}
	})

	citations = appendOutside(citations, text, supraRegex, func(match []int) Citation {
		return Citation{
			Type:     CitationSupra,
			Value:    strings.TrimSpace(text[match[0]:match[1]]),
			CaseName: group(text, match, 1),
			Start:    match[0],
			End:      match[1],
		}
	})

	citations = appendOutside(citations, text, idRegex, func(match []int) Citation {
		return Citation{
			Type:  CitationId,
			Value: strings.TrimSpace(text[match[0]:match[1]]),
			Start: match[0],
			End:   match[1],
		}
	})

	citations = appendOutside(citations, text, statuteRegex, func(match []int) Citation {
		return Citation{
			Type:  CitationStatute,
			Value: strings.TrimSpace(text[match[0]:match[1]]),
			Start: match[0],
			End:   match[1],
		}
	})

	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].Start < citations[j].Start
	})

	annotateLocations(text, citations)
	return citations
}

// appendOutside adds matches of pattern that do not overlap any already
// collected citation span.
func appendOutside(citations []Citation, text string, pattern *regexp.Regexp, build func(match []int) Citation) []Citation {
	for _, match := range pattern.FindAllStringSubmatchIndex(text, -1) {
		if overlapsAny(citations, match[0], match[1]) {
			continue
		}
		citations = append(citations, build(match))
	}
	return citations
}

func overlapsAny(citations []Citation, start, end int) bool {
	for _, citation := range citations {
		if start < citation.End && end > citation.Start {
			return true
		}
	}
	return false
}

func group(text string, match []int, n int) string {
	if 2*n+1 >= len(match) || match[2*n] < 0 {
		return ""
	}
	return strings.TrimSpace(text[match[2*n]:match[2*n+1]])
}

// annotateLocations fills in line numbers and a truncated single-line
// context for each citation, in one pass over the text.
func annotateLocations(text string, citations []Citation) {
	lines := strings.Split(text, "\n")
	offsets := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		offsets[i] = offset
		offset += len(line) + 1
	}

	for i := range citations {
		lineIdx := sort.Search(len(offsets), func(j int) bool {
			return offsets[j] > citations[i].Start
		}) - 1
		if lineIdx < 0 {
			lineIdx = 0
		}
		citations[i].LineNumber = lineIdx + 1
		citations[i].Context = truncateLine(strings.TrimSpace(lines[lineIdx]), 100)
	}
}

func truncateLine(line string, maxLen int) string {
	if len(line) <= maxLen {
		return line
	}
	return line[:maxLen] + "..."
}

// ExtractDates returns all date strings found in the text, in order of
// appearance, deduplicated.
func ExtractDates(text string) []string {
	seen := map[string]bool{}
	var dates []string
	for _, pattern := range []*regexp.Regexp{monthDateRegex, numericDateRegex} {
		for _, match := range pattern.FindAllString(text, -1) {
			if seen[match] {
				continue
			}
			seen[match] = true
			dates = append(dates, match)
		}
	}
	return dates
}

// captionScanLines bounds how far into a document the caption search looks.
// Filed motions carry the caption on the first page.
const captionScanLines = 40

// ExtractCaption locates a case caption near the top of a filed document:
// a party-versus-party title line plus a nearby docket number. Returns nil
// when no caption line is found.
func ExtractCaption(text string) *Caption {
	lines := strings.Split(text, "\n")
	if len(lines) > captionScanLines {
		lines = lines[:captionScanLines]
	}

	for i, line := range lines {
		match := captionVersusRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		caption := &Caption{
			Title:      strings.TrimSpace(match[1]) + " v. " + strings.TrimSpace(match[2]),
			LineNumber: i + 1,
		}
		// Docket numbers sit within a few lines of the title in either
		// direction depending on the court's caption layout.
		for j := max(0, i-4); j < min(len(lines), i+5); j++ {
			if docket := docketRegex.FindStringSubmatch(lines[j]); docket != nil {
				caption.DocketNumber = docket[1]
				break
			}
		}
		return caption
	}
	return nil
}
