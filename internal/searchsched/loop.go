// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package searchsched

import (
	"context"
	"time"

	"github.com/autobrr/qbitrr/internal/catalog"
	"github.com/autobrr/qbitrr/internal/domain"
)

type searchResult int

const (
	resultPosted searchResult = iota
	resultAlreadyQueued
	resultFull
)

// Run blocks, walking the catalog year window and posting searches until
// ctx is cancelled. It returns nil if SearchMissing was downgraded at
// registration — the caller should simply not retry the search half.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.registerSearchMode() {
		return nil
	}
	defer s.Close()

	s.initYearWindow()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		items, err := s.dbUpdate(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("searchsched: db_update failed")
			if sleepCtx(ctx, 30*time.Second) {
				return ctx.Err()
			}
			continue
		}

		if len(items) == 0 {
			if s.advanceYear() {
				if sleepCtx(ctx, 60*time.Second) {
					return ctx.Err()
				}
			}
			continue
		}

		for _, item := range items {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			for {
				result, err := s.maybeDoSearch(ctx, item)
				if err != nil {
					s.log.Warn().Err(err).Int("entryId", item.EntryID).Msg("searchsched: search failed")
					break
				}
				if result != resultFull {
					break
				}
				if sleepCtx(ctx, 30*time.Second) {
					return ctx.Err()
				}
			}
		}

		if s.advanceYear() {
			if sleepCtx(ctx, 60*time.Second) {
				return ctx.Err()
			}
		}
	}
}

// dbUpdate mirrors the current year window's catalog rows into the local
// store and returns the candidates still missing a file.
func (s *Scheduler) dbUpdate(ctx context.Context) ([]catalog.Item, error) {
	items, err := s.catalog.ItemsInYear(ctx, s.currentYear)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := s.store.UpsertFile(ctx, item); err != nil {
			s.log.Warn().Err(err).Int("entryId", item.EntryID).Msg("searchsched: upsert file failed")
		}
	}

	return s.catalog.MissingInYear(ctx, s.currentYear, s.cfg.AlsoSearchSpecials)
}

// maybeDoSearch implements the three-way dispatch for a single candidate
// item: already queued, at the search limit, or eligible to post.
func (s *Scheduler) maybeDoSearch(ctx context.Context, item catalog.Item) (searchResult, error) {
	queued, err := s.store.IsQueued(ctx, item.EntryID)
	if err != nil {
		return 0, err
	}
	if queued {
		s.counters.SearchesSkipped.Add(1)
		return resultAlreadyQueued, nil
	}

	active, err := s.catalog.ActiveSearchCommandCount(ctx)
	if err != nil {
		return 0, err
	}
	if active >= s.cfg.SearchLimit {
		s.counters.SearchesSkipped.Add(1)
		return resultFull, nil
	}

	if err := s.store.Enqueue(ctx, item.EntryID); err != nil {
		return 0, err
	}

	if s.variant == domain.VariantSonarr {
		err = s.arr.EpisodeSearch(ctx, []int{item.EntryID})
	} else {
		err = s.arr.MoviesSearch(ctx, []int{item.EntryID})
	}
	if err != nil {
		return 0, err
	}

	s.counters.SearchesPosted.Add(1)
	return resultPosted, nil
}

// sleepCtx sleeps for d or returns early if ctx is cancelled; it reports
// whether the context was cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-t.C:
		return false
	}
}
