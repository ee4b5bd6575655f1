// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package caselaw

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsWithinBudget(t *testing.T) {
	limiter := NewRateLimiter(10, 100)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}
}

func TestRateLimiter_MinuteWindowBlocks(t *testing.T) {
	limiter := NewRateLimiter(2, 100)

	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	wait, window := limiter.reserve()
	assert.Zero(t, wait)
	wait, window = limiter.reserve()
	assert.Zero(t, wait)

	wait, window = limiter.reserve()
	assert.Equal(t, "minute", window)
	assert.Equal(t, time.Minute, wait)

	// Advance past the window; the oldest stamps age out.
	now = now.Add(61 * time.Second)
	wait, window = limiter.reserve()
	assert.Zero(t, wait)
	assert.Empty(t, window)
}

func TestRateLimiter_HourWindowBlocks(t *testing.T) {
	limiter := NewRateLimiter(100, 3)

	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		wait, _ := limiter.reserve()
		require.Zero(t, wait)
	}

	wait, window := limiter.reserve()
	assert.Equal(t, "hour", window)
	assert.Equal(t, time.Hour, wait)
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewRateLimiter(1, 100)
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAddJitter_WithinBounds(t *testing.T) {
	base := 10 * time.Second
	for i := 0; i < 100; i++ {
		jittered := addJitter(base)
		assert.GreaterOrEqual(t, jittered, 8*time.Second)
		assert.LessOrEqual(t, jittered, 12*time.Second)
	}
}
