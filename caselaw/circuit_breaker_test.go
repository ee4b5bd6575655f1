// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package caselaw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_TripsAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.True(t, cb.Allow(), "below threshold the circuit stays closed")

	cb.RecordFailure()
	assert.False(t, cb.Allow(), "threshold reached, circuit opens")
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	assert.True(t, cb.Allow(), "success resets the consecutive failure count")
}

func TestCircuitBreaker_HalfOpenProbeAfterCooldown(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)

	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.Allow())

	now = now.Add(61 * time.Second)
	assert.True(t, cb.Allow(), "cooldown elapsed, probe allowed")

	// Probe failure re-opens for a fresh cooldown.
	cb.RecordFailure()
	assert.False(t, cb.Allow())

	// Probe success closes the circuit.
	now = now.Add(61 * time.Second)
	assert.True(t, cb.Allow())
	cb.RecordSuccess()
	assert.True(t, cb.Allow())
	assert.False(t, cb.IsOpen())
}
