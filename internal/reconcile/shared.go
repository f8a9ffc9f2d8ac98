// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package reconcile is the Reconciler: the per-manager classifier and
// intent-flush loop that drives the download client toward the state the
// policy wants, one worker instance per manager.
package reconcile

import "sync"

// SharedCache holds the supervisor-scoped, informational hash→name and
// hash→category maps. Reads tolerate staleness; it exists purely for
// logging and placeholder routing.
type SharedCache struct {
	mu         sync.RWMutex
	names      map[string]string
	categories map[string]string
}

func NewSharedCache() *SharedCache {
	return &SharedCache{
		names:      make(map[string]string),
		categories: make(map[string]string),
	}
}

func (c *SharedCache) SetName(hash, name string) {
	c.mu.Lock()
	c.names[hash] = name
	c.mu.Unlock()
}

func (c *SharedCache) SetCategory(hash, category string) {
	c.mu.Lock()
	c.categories[hash] = category
	c.mu.Unlock()
}

func (c *SharedCache) Name(hash string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names[hash]
}

func (c *SharedCache) Category(hash string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cat, ok := c.categories[hash]
	return cat, ok
}

func (c *SharedCache) Evict(hash string) {
	c.mu.Lock()
	delete(c.names, hash)
	delete(c.categories, hash)
	c.mu.Unlock()
}

// Registry lets the placeholder reconcilers resolve which real Reconciler
// owns a hash's original category, so deletion/requeue can be delegated to
// the owning manager's arr client.
type Registry struct {
	mu    sync.RWMutex
	byCat map[string]*Reconciler
}

func NewRegistry() *Registry {
	return &Registry{byCat: make(map[string]*Reconciler)}
}

func (r *Registry) Add(rec *Reconciler) {
	r.mu.Lock()
	r.byCat[rec.cfg.Category] = rec
	r.mu.Unlock()
}

func (r *Registry) Lookup(category string) (*Reconciler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byCat[category]
	return rec, ok
}

// DelayGate lets any reconciler observing a connectivity outage suppress
// every other reconciler's tick until it clears (§12 item 5).
type DelayGate interface {
	ShouldDelay() bool
	SignalNoInternet()
	ClearNoInternet()
}
