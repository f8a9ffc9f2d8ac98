// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/autobrr/qbitrr/internal/qbtclient"
)

// Placeholder is one of the two per-process reconcilers bound to
// FAILED_CATEGORY or RECHECK_CATEGORY rather than to a specific manager.
type Placeholder struct {
	category string
	recheck  bool // true for RECHECK_CATEGORY, false for FAILED_CATEGORY

	qbt      *qbtclient.Client
	shared   *SharedCache
	registry *Registry
	log      zerolog.Logger
}

func NewPlaceholder(category string, recheck bool, qbtClient *qbtclient.Client, shared *SharedCache, registry *Registry, log zerolog.Logger) *Placeholder {
	return &Placeholder{category: category, recheck: recheck, qbt: qbtClient, shared: shared, registry: registry, log: log}
}

// Tick lists torrents in the placeholder's category and applies only rules
// 1 and 2: every torrent it sees already has that category, so the branch
// is trivial — the interesting work is the delegated flush.
func (p *Placeholder) Tick(ctx context.Context) error {
	torrents, err := p.qbt.ListByCategory(ctx, p.category)
	if err != nil {
		return err
	}
	if len(torrents) == 0 {
		return nil
	}

	hashes := make([]string, 0, len(torrents))
	originalCategory := make(map[string]string, len(torrents))
	for _, t := range torrents {
		hash := strings.ToUpper(t.Hash)
		hashes = append(hashes, hash)
		if cat, ok := p.shared.Category(hash); ok {
			originalCategory[hash] = cat
		}
	}

	if p.recheck {
		p.processErrored(ctx, hashes, originalCategory)
		return nil
	}
	p.processFailed(ctx, hashes, originalCategory)
	return nil
}

func (p *Placeholder) processErrored(ctx context.Context, hashes []string, originalCategory map[string]string) {
	if err := p.qbt.Recheck(ctx, hashes); err != nil {
		p.log.Warn().Err(err).Msg("placeholder: recheck failed")
	}

	// Restore each hash's pre-recheck category, grouped into one
	// SetCategory call per distinct category (§12 item 3).
	byCategory := make(map[string][]string)
	for _, h := range hashes {
		cat, ok := originalCategory[h]
		if !ok || cat == "" {
			continue
		}
		byCategory[cat] = append(byCategory[cat], h)
	}
	for cat, hs := range byCategory {
		if err := p.qbt.SetCategory(ctx, hs, cat); err != nil {
			p.log.Warn().Err(err).Str("category", cat).Msg("placeholder: restore category failed")
		}
	}
}

// processFailed delegates deletion for each hash to whichever real
// Reconciler owns its original category, since only that manager's arr
// client can resolve the queue entry and issue a re-search.
func (p *Placeholder) processFailed(ctx context.Context, hashes []string, originalCategory map[string]string) {
	byOwner := make(map[*Reconciler][]string)
	var orphans []string

	for _, h := range hashes {
		cat, ok := originalCategory[h]
		if !ok {
			orphans = append(orphans, h)
			continue
		}
		owner, ok := p.registry.Lookup(cat)
		if !ok {
			orphans = append(orphans, h)
			continue
		}
		byOwner[owner] = append(byOwner[owner], h)
	}

	for owner, hs := range byOwner {
		owner.delegatedFailed(ctx, hs)
	}

	if len(orphans) > 0 {
		if err := p.qbt.DeleteWithFiles(ctx, orphans); err != nil {
			p.log.Warn().Err(err).Msg("placeholder: delete orphaned torrents failed")
		}
		for _, h := range orphans {
			p.shared.Evict(h)
		}
	}
}
