// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ofac

import (
	"sync"

	"github.com/luxfi/identity/codec"
)

// TreeCache is a session-scoped cache of built tree sets keyed by document
// scheme. It is an explicit object passed into the disclosure flow, never
// ambient state: the flow stays correct when the cache is cold or absent,
// it just rebuilds (or refetches) the trees. Reset exists so tests can force
// a cold cache.
type TreeCache struct {
	mu   sync.RWMutex
	sets map[codec.DocumentScheme]*TreeSet
}

// NewTreeCache returns an empty cache.
func NewTreeCache() *TreeCache {
	return &TreeCache{sets: make(map[codec.DocumentScheme]*TreeSet)}
}

// Get returns the cached tree set for a scheme, if present.
func (c *TreeCache) Get(scheme codec.DocumentScheme) (*TreeSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.sets[scheme]
	return set, ok
}

// Put stores a tree set for a scheme, replacing any previous one.
func (c *TreeCache) Put(scheme codec.DocumentScheme, set *TreeSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets[scheme] = set
}

// Reset drops every cached tree set.
func (c *TreeCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets = make(map[codec.DocumentScheme]*TreeSet)
}
