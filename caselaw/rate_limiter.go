// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package caselaw

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// RateLimiter enforces two nested sliding windows (requests per minute and
// requests per hour). When a window is exhausted, Wait suspends the caller
// until the oldest request ages out, with ±20% jitter added so concurrent
// callers don't wake in lockstep.
type RateLimiter struct {
	mu           sync.Mutex
	perMinute    int
	perHour      int
	minuteStamps []time.Time
	hourStamps   []time.Time

	// OnWait, if set, is invoked before each forced wait with the window
	// name ("minute" or "hour") and the jittered wait duration.
	OnWait func(window string, wait time.Duration)

	now func() time.Time
}

// NewRateLimiter creates a rate limiter with the specified per-minute and
// per-hour request budgets.
func NewRateLimiter(perMinute, perHour int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	if perHour <= 0 {
		perHour = 5000
	}
	return &RateLimiter{
		perMinute: perMinute,
		perHour:   perHour,
		now:       time.Now,
	}
}

// Wait blocks until both windows have room or the context is canceled. On
// success the request is recorded against both windows.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait, window := r.reserve()
		if wait <= 0 {
			return nil
		}

		jittered := addJitter(wait)
		if r.OnWait != nil {
			r.OnWait(window, jittered)
		}

		timer := time.NewTimer(jittered)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve records the request if both windows have room, otherwise returns
// how long until the binding window frees a slot.
func (r *RateLimiter) reserve() (time.Duration, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.minuteStamps = pruneStamps(r.minuteStamps, now.Add(-time.Minute))
	r.hourStamps = pruneStamps(r.hourStamps, now.Add(-time.Hour))

	if len(r.minuteStamps) >= r.perMinute {
		return r.minuteStamps[0].Add(time.Minute).Sub(now), "minute"
	}
	if len(r.hourStamps) >= r.perHour {
		return r.hourStamps[0].Add(time.Hour).Sub(now), "hour"
	}

	r.minuteStamps = append(r.minuteStamps, now)
	r.hourStamps = append(r.hourStamps, now)
	return 0, ""
}

func pruneStamps(stamps []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(stamps) && !stamps[idx].After(cutoff) {
		idx++
	}
	return stamps[idx:]
}

// addJitter applies ±20% randomized jitter to a duration.
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	factor := 0.8 + 0.4*rand.Float64()
	return time.Duration(float64(d) * factor)
}
