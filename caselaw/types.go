// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package caselaw

import "time"

const defaultAPIEndpoint = "https://api.caselaw.example.com"

// Default request budgets and limits per the service's published contract.
const (
	DefaultRequestsPerMinute = 60
	DefaultRequestsPerHour   = 5000
	DefaultMaxRetries        = 3
	DefaultMaxBatchCitations = 128
	DefaultMaxBatchChars     = 64000
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultOpinionCacheTTL   = 1 * time.Hour

	DefaultBackoffBase = 1 * time.Second
	DefaultBackoffCap  = 32 * time.Second
)

// Config configures the case-law client. Zero values select the defaults.
type Config struct {
	APIURL   string
	APIToken string

	RequestsPerMinute int
	RequestsPerHour   int
	MaxRetries        int
	MaxBatchCitations int
	MaxBatchChars     int
	HTTPTimeout       time.Duration
	OpinionCacheTTL   time.Duration

	CircuitFailureThreshold int
	CircuitCooldown         time.Duration

	BackoffBase time.Duration
	BackoffCap  time.Duration
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = defaultAPIEndpoint
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.RequestsPerHour <= 0 {
		c.RequestsPerHour = DefaultRequestsPerHour
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MaxBatchCitations <= 0 {
		c.MaxBatchCitations = DefaultMaxBatchCitations
	}
	if c.MaxBatchChars <= 0 {
		c.MaxBatchChars = DefaultMaxBatchChars
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.OpinionCacheTTL <= 0 {
		c.OpinionCacheTTL = DefaultOpinionCacheTTL
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = DefaultBackoffBase
	}
	if c.BackoffCap <= 0 {
		c.BackoffCap = DefaultBackoffCap
	}
}

// Candidate is a single case returned by lookup or search. Immutable once
// produced.
type Candidate struct {
	ClusterID   string `json:"cluster_id"`
	CaseName    string `json:"case_name"`
	Citation    string `json:"citation"`
	Court       string `json:"court"`
	DateFiled   string `json:"date_filed"`
	Snippet     string `json:"snippet"`
	AbsoluteURL string `json:"absolute_url"`
}

// ExistenceResult is the outcome of a citation existence check.
type ExistenceResult struct {
	Found      bool
	Candidates []Candidate
}

// OpinionResult is the outcome of an opinion-text retrieval. Retrieved false
// with a nil error means the service had no text for the cluster, which is a
// content outcome, not a failure.
type OpinionResult struct {
	Retrieved bool
	PlainText string
}

// LookupMatch is one entry of a bulk citation lookup response.
type LookupMatch struct {
	CitationText string
	Found        bool
	Candidates   []Candidate
}
