// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import qbt "github.com/autobrr/go-qbittorrent"

// tickIntents accumulates one tick's classifier output before it is
// flushed in a fixed order.
type tickIntents struct {
	pause          map[string]struct{}
	resume         map[string]struct{}
	recheck        map[string]struct{}
	delete         map[string]struct{}
	skipBlacklist  map[string]struct{}
	changePriority map[string][]int
	importTorrents []qbt.Torrent
	needsCleanup   bool
}

func newTickIntents() *tickIntents {
	return &tickIntents{
		pause:          make(map[string]struct{}),
		resume:         make(map[string]struct{}),
		recheck:        make(map[string]struct{}),
		delete:         make(map[string]struct{}),
		skipBlacklist:  make(map[string]struct{}),
		changePriority: make(map[string][]int),
	}
}

func hashSlice(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for h := range m {
		out = append(out, h)
	}
	return out
}
