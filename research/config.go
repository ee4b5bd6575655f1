// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package research

import "strings"

// ElementConfig consolidates the per-element tables the pipeline matches
// against: relevance keywords, cross-batch adjacency, synonym substitutions,
// hand-authored fallback queries, per-motion-type core elements, and the
// context patterns used to infer an element from draft text.
//
// The term lists are hand-tuned from observed audit failures (Louisiana
// employment matters in particular), not derived from a general algorithm.
// Treat them as versioned configuration data.
type ElementConfig struct {
	Version string

	// Synonyms maps a query term to its substitution alternatives.
	Synonyms map[string][]string

	// Keywords maps an element to the terms that mark a candidate case as
	// relevant to it.
	Keywords map[string][]string

	// Adjacency maps an element to semantically related elements whose
	// batches may already hold usable authority. Deliberately asymmetric.
	Adjacency map[string][]string

	// FallbackQueries maps an element to broad hand-authored queries used
	// as the last retry strategy regardless of the original query's wording.
	FallbackQueries map[string][]string

	// CoreElements maps a motion type to the elements that are dispositive
	// for it. Non-core elements get a relaxed supplementation threshold.
	CoreElements map[string][]string

	// ScopeQualifiers are temporal/role qualifiers removed when broadening
	// an over-narrow query.
	ScopeQualifiers []string

	// ContextPatterns is an ordered pattern table for inferring the legal
	// element of a citation gap from its surrounding context. First match
	// wins, so order encodes priority.
	ContextPatterns []ElementPatterns

	// Stopwords are excluded when deriving search terms from gap context.
	Stopwords []string
}

// ElementPatterns pairs an element with the context substrings that imply it.
type ElementPatterns struct {
	Element  string
	Patterns []string
}

// UnknownElement is the inference fallback when no context pattern matches.
const UnknownElement = "unknown_element"

// DefaultElementConfig returns the current hand-tuned table set.
func DefaultElementConfig() *ElementConfig {
	return &ElementConfig{
		Version: "2026-02",

		Synonyms: map[string][]string{
			"duty of loyalty":  {"fiduciary duty", "employee loyalty obligation"},
			"duty loyalty":     {"fiduciary duty", "loyalty obligation"},
			"non-compete":      {"noncompetition agreement", "covenant not to compete"},
			"non-solicitation": {"nonsolicitation agreement", "solicitation of customers"},
			"trade secret":     {"confidential information", "proprietary information"},
			"irreparable harm": {"irreparable injury"},
		},

		Keywords: map[string][]string{
			"duty_of_loyalty":                 {"loyalty", "fiduciary", "faithless", "disloyal"},
			"breach_of_fiduciary_duty":        {"fiduciary", "self-dealing", "conflict of interest", "breach of trust"},
			"competing_during_employment":     {"compete", "competing", "competition", "rival venture"},
			"non_solicitation":                {"solicit", "solicitation", "customer", "client", "poach"},
			"legitimate_business_interest":    {"business interest", "goodwill", "customer relationships", "customer relationship", "protectable interest"},
			"trade_secret_misappropriation":   {"trade secret", "misappropriation", "confidential", "proprietary"},
			"non_compete_enforceability":      {"non-compete", "noncompetition", "covenant not to compete", "restraint of trade"},
			"irreparable_harm":                {"irreparable", "inadequate remedy", "injury"},
			"preliminary_injunction_standard": {"injunction", "likelihood of success", "balance of harms"},
			"breach_of_contract":              {"breach", "contract", "agreement", "obligation"},
		},

		Adjacency: map[string][]string{
			"duty_of_loyalty":                 {"competing_during_employment", "breach_of_fiduciary_duty"},
			"competing_during_employment":     {"duty_of_loyalty"},
			"breach_of_fiduciary_duty":        {"duty_of_loyalty"},
			"non_solicitation":                {"legitimate_business_interest", "non_compete_enforceability"},
			"legitimate_business_interest":    {"non_solicitation", "trade_secret_misappropriation"},
			"trade_secret_misappropriation":   {"legitimate_business_interest"},
			"irreparable_harm":                {"preliminary_injunction_standard"},
			"preliminary_injunction_standard": {"irreparable_harm"},
		},

		FallbackQueries: map[string][]string{
			"duty_of_loyalty":                 {"employee duty of loyalty Louisiana", "breach of loyalty employer appellate"},
			"breach_of_fiduciary_duty":        {"breach of fiduciary duty employee Louisiana", "fiduciary duty corporate officer"},
			"competing_during_employment":     {"employee competing with employer Louisiana", "unfair competition former employee"},
			"non_solicitation":                {"customer non-solicitation agreement enforceability Louisiana", "former employee solicitation of customers"},
			"legitimate_business_interest":    {"legitimate business interest restrictive covenant", "protectable business interest Louisiana"},
			"trade_secret_misappropriation":   {"trade secret misappropriation Louisiana", "Louisiana Uniform Trade Secrets Act"},
			"non_compete_enforceability":      {"non-compete agreement enforceability Louisiana", "covenant not to compete reasonableness"},
			"irreparable_harm":                {"irreparable injury preliminary injunction Louisiana", "inadequate remedy at law injunction"},
			"preliminary_injunction_standard": {"preliminary injunction standard Louisiana", "likelihood of success on the merits"},
			"breach_of_contract":              {"breach of contract damages Louisiana"},
		},

		CoreElements: map[string][]string{
			"preliminary_injunction":      {"irreparable_harm", "preliminary_injunction_standard", "legitimate_business_interest", "duty_of_loyalty"},
			"temporary_restraining_order": {"irreparable_harm", "preliminary_injunction_standard"},
			"summary_judgment":            {"breach_of_contract", "duty_of_loyalty", "breach_of_fiduciary_duty"},
			"motion_to_dismiss":           {"breach_of_contract"},
		},

		ScopeQualifiers: []string{"during employment", "while employed", "employee"},

		ContextPatterns: []ElementPatterns{
			{Element: "trade_secret_misappropriation", Patterns: []string{"trade secret", "confidential information", "proprietary"}},
			{Element: "non_solicitation", Patterns: []string{"non-solicit", "nonsolicit", "solicit"}},
			{Element: "non_compete_enforceability", Patterns: []string{"non-compete", "noncompete", "covenant not to compete"}},
			{Element: "legitimate_business_interest", Patterns: []string{"customer relationship", "business interest", "goodwill"}},
			{Element: "competing_during_employment", Patterns: []string{"competing", "competitor", "rival"}},
			{Element: "breach_of_fiduciary_duty", Patterns: []string{"fiduciary"}},
			{Element: "duty_of_loyalty", Patterns: []string{"loyalty", "disloyal"}},
			{Element: "irreparable_harm", Patterns: []string{"irreparable", "inadequate remedy"}},
			{Element: "preliminary_injunction_standard", Patterns: []string{"injunction", "likelihood of success"}},
			{Element: "breach_of_contract", Patterns: []string{"breach of contract", "contractual obligation"}},
		},

		Stopwords: []string{
			"a", "an", "and", "are", "as", "at", "be", "by", "com", "for",
			"from", "has", "have", "his", "her", "in", "into", "is", "it",
			"its", "of", "on", "or", "such", "that", "the", "their", "then",
			"there", "these", "they", "this", "to", "was", "were", "which",
			"will", "with", "would", "shall", "must", "may", "any", "all",
			"not", "no", "but", "if", "when", "where", "who", "whom", "under",
		},
	}
}

// InferElement matches gap context against the ordered pattern table.
// Returns UnknownElement when nothing matches.
func (c *ElementConfig) InferElement(contextText string) string {
	lowered := strings.ToLower(contextText)
	for _, entry := range c.ContextPatterns {
		for _, pattern := range entry.Patterns {
			if strings.Contains(lowered, pattern) {
				return entry.Element
			}
		}
	}
	return UnknownElement
}

// KeywordRelevance counts how many of an element's keywords appear in the
// given text. Zero means the text is not relevant to the element.
func (c *ElementConfig) KeywordRelevance(element, text string) int {
	lowered := strings.ToLower(text)
	score := 0
	for _, keyword := range c.Keywords[element] {
		if strings.Contains(lowered, keyword) {
			score++
		}
	}
	return score
}

// IsCoreElement reports whether an element is dispositive for a motion type.
func (c *ElementConfig) IsCoreElement(motionType, element string) bool {
	for _, core := range c.CoreElements[motionType] {
		if core == element {
			return true
		}
	}
	return false
}

// IsStopword reports whether a term should be excluded from derived queries.
func (c *ElementConfig) IsStopword(term string) bool {
	lowered := strings.ToLower(term)
	for _, stopword := range c.Stopwords {
		if lowered == stopword {
			return true
		}
	}
	return false
}
