// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package searchsched is the Search Scheduler: the per-manager loop that
// walks the catalog year by year and issues bounded, rate-limited search
// commands for missing items, following a
// register/db-update/fetch-candidates/maybe-search sequence each pass.
package searchsched

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/autobrr/qbitrr/internal/arrclient"
	"github.com/autobrr/qbitrr/internal/catalog"
	"github.com/autobrr/qbitrr/internal/domain"
	"github.com/autobrr/qbitrr/internal/metrics"
	"github.com/autobrr/qbitrr/internal/searchstore"
)

// Scheduler is one manager's search loop.
type Scheduler struct {
	group   string
	cfg     *domain.ManagerConfig
	variant domain.Variant

	catalogPath string
	storePath   string

	arr *arrclient.Client

	registered bool
	catalog    *catalog.Reader
	store      *searchstore.Store

	currentYear  int
	delta        int
	stoppingYear int

	counters *metrics.ManagerCounters
	log      zerolog.Logger
}

// New builds a Scheduler for one manager. Neither the catalog nor the
// local store is opened yet — that happens lazily on the first loop
// iteration (§12 item 2).
func New(group string, cfg *domain.ManagerConfig, variant domain.Variant, catalogPath, storePath string,
	arrClient *arrclient.Client, counters *metrics.ManagerCounters, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		group:       group,
		cfg:         cfg,
		variant:     variant,
		catalogPath: catalogPath,
		storePath:   storePath,
		arr:         arrClient,
		counters:    counters,
		log:         log,
	}
}

// registerSearchMode lazily opens the catalog and local store on first use.
// If the catalog file does not exist, SearchMissing is downgraded to false
// for the remainder of the process.
func (s *Scheduler) registerSearchMode() bool {
	if s.registered {
		return s.catalog != nil
	}
	s.registered = true

	if _, err := os.Stat(s.catalogPath); err != nil {
		s.log.Warn().Str("path", s.catalogPath).Msg("searchsched: catalog file missing, disabling search for this manager")
		s.cfg.SearchMissing = false
		return false
	}

	reader, err := catalog.Open(s.catalogPath, s.variant)
	if err != nil {
		s.log.Warn().Err(err).Msg("searchsched: opening catalog failed, disabling search for this manager")
		s.cfg.SearchMissing = false
		return false
	}

	store, err := searchstore.Open(s.storePath, s.variant)
	if err != nil {
		s.log.Warn().Err(err).Msg("searchsched: opening local search store failed, disabling search for this manager")
		reader.Close()
		s.cfg.SearchMissing = false
		return false
	}

	s.catalog = reader
	s.store = store
	return true
}

func (s *Scheduler) Close() error {
	if s.store != nil {
		s.store.Close()
	}
	if s.catalog != nil {
		return s.catalog.Close()
	}
	return nil
}

// initYearWindow sets the starting year and walk direction.
func (s *Scheduler) initYearWindow() {
	if s.cfg.SearchInReverse {
		s.delta = 1
		s.currentYear = s.cfg.LastYear
		s.stoppingYear = time.Now().Year()
	} else {
		s.delta = -1
		s.currentYear = s.cfg.StartYear
		s.stoppingYear = 1900
	}
	s.counters.CurrentYear.Store(int64(s.currentYear))
}

// advanceYear moves the window by one step, wrapping back to the initial
// year when the stopping year is passed.
func (s *Scheduler) advanceYear() (wrapped bool) {
	s.currentYear += s.delta

	if s.delta < 0 && s.currentYear < s.stoppingYear {
		wrapped = true
	}
	if s.delta > 0 && s.currentYear > s.stoppingYear {
		wrapped = true
	}
	if wrapped {
		s.initYearWindow()
		return true
	}

	s.counters.CurrentYear.Store(int64(s.currentYear))
	return false
}
