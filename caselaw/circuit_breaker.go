// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package caselaw

import (
	"sync"
	"time"
)

const (
	defaultFailureThreshold = 5
	defaultCooldown         = 60 * time.Second
)

// CircuitBreaker trips after a run of consecutive failures and rejects calls
// for a cooldown period instead of attempting the network. After the
// cooldown a single probe call is allowed through; its outcome decides
// whether the circuit closes or re-opens.
type CircuitBreaker struct {
	mu               sync.Mutex
	failureThreshold int
	cooldown         time.Duration

	consecutiveFailures int
	open                bool
	openedAt            time.Time

	now func() time.Time
}

// NewCircuitBreaker creates a circuit breaker with the given failure
// threshold and cooldown. Zero values select the defaults.
func NewCircuitBreaker(failureThreshold int, cooldown time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = defaultFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		now:              time.Now,
	}
}

// Allow reports whether a call may proceed. While open and inside the
// cooldown it returns false; past the cooldown it lets a probe through.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.open {
		return true
	}
	if cb.now().Sub(cb.openedAt) < cb.cooldown {
		return false
	}
	// Half-open: permit the probe. A failure re-opens via RecordFailure.
	return true
}

// RecordSuccess resets the failure count and closes the circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures = 0
	cb.open = false
}

// RecordFailure counts a failure and opens the circuit once the threshold
// is reached.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures++
	if cb.consecutiveFailures >= cb.failureThreshold {
		cb.open = true
		cb.openedAt = cb.now()
	}
}

// IsOpen reports whether the circuit is currently rejecting calls.
func (cb *CircuitBreaker) IsOpen() bool {
	return !cb.Allow()
}
