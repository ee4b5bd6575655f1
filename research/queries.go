// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package research

import (
	"regexp"
	"sort"
	"strings"
)

// Strategy identifies how an alternative query was generated. Later
// strategies are more aggressive generalizations of the original query.
type Strategy string

const (
	StrategyStatuteStrip Strategy = "statute_strip"
	StrategySynonym      Strategy = "synonym"
	StrategyBroaden      Strategy = "broaden"
	StrategyFallback     Strategy = "element_fallback"
)

// AlternativeQuery is one retry candidate with its generating strategy.
type AlternativeQuery struct {
	Query    string
	Strategy Strategy
}

// maxGeneratedQueries caps the deduplicated list before it is sliced down
// to the attempt budget.
const maxGeneratedQueries = 5

// Statute citation patterns stripped by the first strategy. A query anchored
// to one statute number under-matches case law discussing the same doctrine
// without citing that exact provision.
var statutePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bLa\.?\s*(?:C\.?\s*C\.?|Civ\.?\s*Code)\s*(?:Art\.?|Article)\s*\d+(?:\.\d+)?`),
	regexp.MustCompile(`(?i)\bLa\.?\s*R\.?\s*S\.?\s*\d+:\d+(?:\.\d+)?`),
	regexp.MustCompile(`(?i)\b(?:Art\.?|Article)\s*\d+(?:\.\d+)?`),
	regexp.MustCompile(`(?i)(?:§|\bSection|\bSec\.?)\s*\d+[\w.:-]*`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// GenerateAlternativeQueries produces the ordered, deduplicated retry list
// for a failed batch. Deterministic for a fixed (element, query) pair; the
// strategy order is a correctness property, not an implementation detail,
// because earlier strategies preserve more of the original query's
// precision.
func GenerateAlternativeQueries(cfg *ElementConfig, element, originalQuery, jurisdiction string) []AlternativeQuery {
	var generated []AlternativeQuery

	// Strategy 1: strip statute-specific references.
	stripped := StripStatuteReferences(originalQuery)
	if stripped != "" && !strings.EqualFold(stripped, originalQuery) {
		generated = append(generated, AlternativeQuery{Query: stripped, Strategy: StrategyStatuteStrip})
	}

	// Later strategies work from the stripped form so a statute reference
	// never survives into a substituted or broadened query.
	base := stripped
	if base == "" {
		base = originalQuery
	}

	// Strategy 2: synonym substitution, one alternative per term/synonym
	// pair. Terms are visited in sorted order for determinism.
	loweredBase := strings.ToLower(base)
	terms := make([]string, 0, len(cfg.Synonyms))
	for term := range cfg.Synonyms {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for _, term := range terms {
		if !strings.Contains(loweredBase, term) {
			continue
		}
		pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
		for _, synonym := range cfg.Synonyms[term] {
			generated = append(generated, AlternativeQuery{
				Query:    collapseSpaces(pattern.ReplaceAllString(base, synonym)),
				Strategy: StrategySynonym,
			})
		}
	}

	// Strategy 3: broaden scope by dropping temporal/role qualifiers and
	// anchoring to the jurisdiction's appellate courts.
	broadened := base
	for _, qualifier := range cfg.ScopeQualifiers {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(qualifier) + `\b`)
		broadened = pattern.ReplaceAllString(broadened, " ")
	}
	broadened = collapseSpaces(broadened)
	if broadened != "" {
		suffix := strings.TrimSpace(jurisdiction + " appellate")
		if !strings.Contains(strings.ToLower(broadened), strings.ToLower(suffix)) {
			broadened = collapseSpaces(broadened + " " + suffix)
		}
		generated = append(generated, AlternativeQuery{Query: broadened, Strategy: StrategyBroaden})
	}

	// Strategy 4: hand-authored element fallbacks, independent of the
	// original wording.
	for _, fallback := range cfg.FallbackQueries[element] {
		generated = append(generated, AlternativeQuery{Query: fallback, Strategy: StrategyFallback})
	}

	return dedupeQueries(generated, originalQuery)
}

// StripStatuteReferences removes jurisdiction-specific statute citation
// patterns from a query.
func StripStatuteReferences(query string) string {
	result := query
	for _, pattern := range statutePatterns {
		result = pattern.ReplaceAllString(result, " ")
	}
	return collapseSpaces(result)
}

func dedupeQueries(queries []AlternativeQuery, originalQuery string) []AlternativeQuery {
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(originalQuery)): true}
	deduplicated := make([]AlternativeQuery, 0, len(queries))
	for _, alternative := range queries {
		key := strings.ToLower(strings.TrimSpace(alternative.Query))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		deduplicated = append(deduplicated, alternative)
		if len(deduplicated) == maxGeneratedQueries {
			break
		}
	}
	return deduplicated
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
