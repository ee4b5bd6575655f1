// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package caselaw

import (
	"sync"
	"time"
)

// opinionCache is a TTL cache for retrieved opinion texts so repeated
// verification of the same cluster within a run doesn't re-fetch.
// Callers must call Close() when done to stop the cleanup goroutine.
type opinionCache struct {
	items     map[string]opinionCacheItem
	ttl       time.Duration
	mu        sync.RWMutex
	cleanup   chan struct{}
	closeOnce sync.Once
}

type opinionCacheItem struct {
	opinion   OpinionResult
	expiresAt time.Time
}

func newOpinionCache(ttl time.Duration) *opinionCache {
	cache := &opinionCache{
		items:   make(map[string]opinionCacheItem),
		ttl:     ttl,
		cleanup: make(chan struct{}),
	}
	go cache.startCleanup()
	return cache
}

func (c *opinionCache) Get(clusterID string) (OpinionResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[clusterID]
	if !exists || time.Now().After(item.expiresAt) {
		return OpinionResult{}, false
	}
	return item.opinion, true
}

func (c *opinionCache) Set(clusterID string, opinion OpinionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[clusterID] = opinionCacheItem{
		opinion:   opinion,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *opinionCache) Close() {
	c.closeOnce.Do(func() {
		close(c.cleanup)
	})
}

func (c *opinionCache) startCleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.cleanup:
			return
		}
	}
}

func (c *opinionCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
}
