// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package citations

// CitationType classifies an extracted citation.
type CitationType string

const (
	// CitationFullCase is a complete case citation with party names and a
	// reporter reference, e.g. "Smith v. Jones, 123 So. 3d 456 (La. 2014)".
	CitationFullCase CitationType = "FULL_CASE"
	// CitationShortCase is a short-form reference back to a previously
	// cited case, e.g. "Smith, 123 So. 3d at 460".
	CitationShortCase CitationType = "SHORT_CASE"
	// CitationId is an "Id." or "Ibid." reference to the immediately
	// preceding authority.
	CitationId CitationType = "ID"
	// CitationSupra is a "supra" reference back to an earlier authority.
	CitationSupra CitationType = "SUPRA"
	// CitationStatute is a statutory or code citation, e.g. "La. R.S.
	// 23:921" or "La. C.C. art. 2315".
	CitationStatute CitationType = "STATUTE"
)

// Citation is one citation extracted from document text.
type Citation struct {
	Type       CitationType `json:"type"`
	Value      string       `json:"value"`
	CaseName   string       `json:"case_name,omitempty"`
	PinCite    string       `json:"pin_cite,omitempty"`
	Start      int          `json:"start"`
	End        int          `json:"end"`
	LineNumber int          `json:"line_number"`
	Context    string       `json:"context"`
}

// Caption is a case caption located near the top of a filed document.
type Caption struct {
	Title        string `json:"title"`
	DocketNumber string `json:"docket_number,omitempty"`
	LineNumber   int    `json:"line_number"`
}

// IsResolvable reports whether the citation can be looked up on its own.
// Id and supra references only make sense relative to surrounding text.
func (c Citation) IsResolvable() bool {
	return c.Type == CitationFullCase || c.Type == CitationShortCase || c.Type == CitationStatute
}
