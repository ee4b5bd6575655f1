// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package caselaw

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned without attempting the network when the circuit
// breaker has tripped. Callers should fall through to their fallback strategy
// instead of retrying immediately.
var ErrCircuitOpen = errors.New("case-law service circuit open")

// BatchLimitError reports a bulk lookup that exceeds the API's request
// limits. It is returned synchronously, before any network call.
type BatchLimitError struct {
	Citations    int
	MaxCitations int
	Chars        int
	MaxChars     int
}

func (e *BatchLimitError) Error() string {
	if e.Citations > e.MaxCitations {
		return fmt.Sprintf("citation batch too large: %d citations exceeds limit of %d", e.Citations, e.MaxCitations)
	}
	return fmt.Sprintf("citation batch too large: %d combined characters exceeds limit of %d", e.Chars, e.MaxChars)
}

// APIError reports a non-retriable HTTP failure from the case-law service.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("case-law %s request failed: status %d", e.Endpoint, e.StatusCode)
}

// IsRetriable reports whether an HTTP status should be retried with backoff.
// 429 and 5xx are transient per the service's documented contract.
func IsRetriable(statusCode int) bool {
	return statusCode == 429 || statusCode >= 500
}
