// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package caselaw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/motiongranted/citeverify/logger"
	"github.com/motiongranted/citeverify/metrics"
)

// Client talks to the external case-law lookup/search service. All calls
// pass through the shared rate limiter and circuit breaker; transient
// failures retry with exponential backoff. One Client instance is expected
// per process, constructed by the orchestrator and passed into every
// component that needs it.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *RateLimiter
	breaker    *CircuitBreaker
	opinions   *opinionCache
	logger     logger.Logger
	metrics    metrics.Metrics
}

// NewClient creates a case-law client. httpClient may be nil, in which case
// a default client with the configured timeout is used. log and m may be nil.
func NewClient(cfg Config, httpClient *http.Client, log logger.Logger, m metrics.Metrics) *Client {
	cfg.applyDefaults()

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	c := &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    NewRateLimiter(cfg.RequestsPerMinute, cfg.RequestsPerHour),
		breaker:    NewCircuitBreaker(cfg.CircuitFailureThreshold, cfg.CircuitCooldown),
		opinions:   newOpinionCache(cfg.OpinionCacheTTL),
		logger:     log,
		metrics:    m,
	}

	c.limiter.OnWait = func(window string, wait time.Duration) {
		if c.metrics != nil {
			c.metrics.IncrementRateLimitWaits(window)
		}
		if c.logger != nil {
			c.logger.Debug("case-law rate window exhausted, waiting", "window", window, "wait", wait.String())
		}
	}

	return c
}

// Close releases the opinion cache's background resources.
func (c *Client) Close() {
	c.opinions.Close()
}

// LookupCitations performs a bulk existence lookup. Exceeding the batch size
// or combined character limit fails fast before any network call.
func (c *Client) LookupCitations(ctx context.Context, citationTexts []string) ([]LookupMatch, error) {
	if len(citationTexts) > c.cfg.MaxBatchCitations {
		return nil, &BatchLimitError{
			Citations:    len(citationTexts),
			MaxCitations: c.cfg.MaxBatchCitations,
			Chars:        0,
			MaxChars:     c.cfg.MaxBatchChars,
		}
	}
	totalChars := 0
	for _, text := range citationTexts {
		totalChars += len(text)
	}
	if totalChars > c.cfg.MaxBatchChars {
		return nil, &BatchLimitError{
			Citations:    len(citationTexts),
			MaxCitations: c.cfg.MaxBatchCitations,
			Chars:        totalChars,
			MaxChars:     c.cfg.MaxBatchChars,
		}
	}

	lookupURL := fmt.Sprintf("%s/v1/citation-lookup/", strings.TrimSuffix(c.cfg.APIURL, "/"))
	var items []lookupResponseItem
	status, err := c.doJSON(ctx, http.MethodPost, "citation-lookup", lookupURL, lookupRequest{Citations: citationTexts}, &items)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		// Endpoint-level 404 on lookup means nothing matched.
		matches := make([]LookupMatch, len(citationTexts))
		for i, text := range citationTexts {
			matches[i] = LookupMatch{CitationText: text, Found: false}
		}
		return matches, nil
	}

	matches := make([]LookupMatch, 0, len(items))
	for _, item := range items {
		matches = append(matches, LookupMatch{
			CitationText: item.Citation,
			Found:        item.Status == http.StatusOK && len(item.Clusters) > 0,
			Candidates:   candidatesFromJSON(item.Clusters),
		})
	}
	return matches, nil
}

// CheckExistence checks whether a single citation exists in the database.
// A 404 is "not found", not an error.
func (c *Client) CheckExistence(ctx context.Context, citationText string) (*ExistenceResult, error) {
	matches, err := c.LookupCitations(ctx, []string{citationText})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return &ExistenceResult{Found: false}, nil
	}
	return &ExistenceResult{
		Found:      matches[0].Found,
		Candidates: matches[0].Candidates,
	}, nil
}

// RetrieveOpinion fetches the plain text of an opinion by cluster id.
// Missing text is a content outcome (Retrieved false, nil error), not a
// failure. Successful retrievals are cached for the configured TTL.
func (c *Client) RetrieveOpinion(ctx context.Context, clusterID string) (*OpinionResult, error) {
	if cached, ok := c.opinions.Get(clusterID); ok {
		return &cached, nil
	}

	opinionURL := fmt.Sprintf("%s/v1/opinions/%s/", strings.TrimSuffix(c.cfg.APIURL, "/"), url.PathEscape(clusterID))
	var body opinionResponse
	status, err := c.doJSON(ctx, http.MethodGet, "opinions", opinionURL, nil, &body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || strings.TrimSpace(body.PlainText) == "" {
		return &OpinionResult{Retrieved: false}, nil
	}

	result := OpinionResult{Retrieved: true, PlainText: body.PlainText}
	c.opinions.Set(clusterID, result)
	return &result, nil
}

// Search performs a full-text search, optionally filtered by jurisdiction.
func (c *Client) Search(ctx context.Context, query, jurisdiction string, maxResults int) ([]Candidate, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	searchURL := fmt.Sprintf("%s/v1/search/", strings.TrimSuffix(c.cfg.APIURL, "/"))
	values := url.Values{}
	values.Set("q", query)
	if jurisdiction != "" {
		values.Set("jurisdiction", jurisdiction)
	}
	values.Set("page_size", strconv.Itoa(maxResults))

	var body searchResponse
	status, err := c.doJSON(ctx, http.MethodGet, "search", searchURL+"?"+values.Encode(), nil, &body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}

	candidates := candidatesFromJSON(body.Results)
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates, nil
}

// doJSON performs one logical request with circuit-breaker gating, rate
// limiting, and bounded retry with backoff. It returns the final HTTP status
// on success; 404 is passed through to the caller rather than treated as an
// error.
func (c *Client) doJSON(ctx context.Context, method, endpoint, urlStr string, reqBody any, out any) (int, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		if !c.breaker.Allow() {
			if c.metrics != nil {
				c.metrics.IncrementCircuitOpenRejections()
			}
			return 0, ErrCircuitOpen
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, err
		}

		status, err := c.attempt(ctx, method, endpoint, urlStr, reqBody, out)
		if err == nil && !IsRetriable(status) {
			c.breaker.RecordSuccess()
			if status >= 400 && status != http.StatusNotFound {
				return status, &APIError{Endpoint: endpoint, StatusCode: status}
			}
			return status, nil
		}

		c.breaker.RecordFailure()
		if err != nil {
			lastErr = err
		} else {
			lastErr = &APIError{Endpoint: endpoint, StatusCode: status}
		}

		if attempt >= c.cfg.MaxRetries {
			return status, errors.Wrapf(lastErr, "case-law %s request failed after %d retries", endpoint, c.cfg.MaxRetries)
		}

		if c.metrics != nil {
			c.metrics.IncrementAPIRetries(endpoint)
		}
		wait := addJitter(backoffFor(c.cfg.BackoffBase, c.cfg.BackoffCap, attempt))
		if c.logger != nil {
			c.logger.Debug("retrying case-law request", "endpoint", endpoint, "attempt", attempt+1, "wait", wait.String(), "error", lastErr.Error())
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, ctx.Err()
		case <-timer.C:
		}
	}
}

// attempt performs a single HTTP round trip. Network errors and timeouts
// surface as errors; HTTP statuses are returned for the caller to classify.
func (c *Client) attempt(ctx context.Context, method, endpoint, urlStr string, reqBody any, out any) (int, error) {
	var bodyReader *bytes.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return 0, fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	var req *http.Request
	var err error
	if bodyReader != nil {
		req, err = http.NewRequestWithContext(ctx, method, urlStr, bodyReader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, urlStr, nil)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}

	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		if c.metrics != nil {
			c.metrics.ObserveAPIRequestDuration(endpoint, "error", elapsed)
		}
		return 0, fmt.Errorf("case-law %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.ObserveAPIRequestDuration(endpoint, strconv.Itoa(resp.StatusCode), elapsed)
	}

	if resp.StatusCode == http.StatusOK && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
		}
	}
	return resp.StatusCode, nil
}

// backoffFor computes the exponential delay for a retry attempt, capped.
func backoffFor(base, limit time.Duration, attempt int) time.Duration {
	delay := base << attempt
	if delay > limit || delay <= 0 {
		delay = limit
	}
	return delay
}

func candidatesFromJSON(clusters []candidateJSON) []Candidate {
	candidates := make([]Candidate, 0, len(clusters))
	for _, cluster := range clusters {
		candidates = append(candidates, Candidate{
			ClusterID:   cluster.ClusterID,
			CaseName:    strings.TrimSpace(cluster.CaseName),
			Citation:    strings.TrimSpace(cluster.Citation),
			Court:       strings.TrimSpace(cluster.Court),
			DateFiled:   cluster.DateFiled,
			Snippet:     strings.TrimSpace(cluster.Snippet),
			AbsoluteURL: cluster.AbsoluteURL,
		})
	}
	return candidates
}

type lookupRequest struct {
	Citations []string `json:"citations"`
}

type lookupResponseItem struct {
	Citation string          `json:"citation"`
	Status   int             `json:"status"`
	Clusters []candidateJSON `json:"clusters"`
}

type opinionResponse struct {
	ClusterID string `json:"cluster_id"`
	PlainText string `json:"plain_text"`
}

type searchResponse struct {
	Count   int             `json:"count"`
	Results []candidateJSON `json:"results"`
}

type candidateJSON struct {
	ClusterID   string `json:"cluster_id"`
	CaseName    string `json:"case_name"`
	Citation    string `json:"citation"`
	Court       string `json:"court"`
	DateFiled   string `json:"date_filed"`
	Snippet     string `json:"snippet"`
	AbsoluteURL string `json:"absolute_url"`
}
