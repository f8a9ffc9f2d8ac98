// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package ttlset provides a TTL-keyed membership set, used by the
// Reconciler for timed_ignore_cache and timed_skip.
package ttlset

import (
	"time"

	"github.com/autobrr/autobrr/pkg/ttlcache"
)

// Set is a thin wrapper over ttlcache.Cache[string, struct{}] giving it
// set-like Add/Contains/Remove semantics keyed by upper-cased torrent hash.
type Set struct {
	cache *ttlcache.Cache[string, struct{}]
	ttl   time.Duration
}

// New creates a Set whose entries expire after ttl unless refreshed.
func New(ttl time.Duration) *Set {
	opts := ttlcache.Options[string, struct{}]{}.SetDefaultTTL(ttl)
	return &Set{cache: ttlcache.New(opts), ttl: ttl}
}

func (s *Set) Add(key string) {
	s.cache.Set(key, struct{}{}, ttlcache.DefaultTTL)
}

func (s *Set) Contains(key string) bool {
	_, found := s.cache.Get(key)
	return found
}

func (s *Set) Remove(key string) {
	s.cache.Delete(key)
}
