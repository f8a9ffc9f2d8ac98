// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/autobrr/qbitrr/internal/arrclient"
	"github.com/autobrr/qbitrr/internal/domain"
	"github.com/autobrr/qbitrr/internal/metrics"
	"github.com/autobrr/qbitrr/internal/policy"
	"github.com/autobrr/qbitrr/internal/qbtclient"
	"github.com/autobrr/qbitrr/internal/ttlset"
)

// Reconciler is the per-manager torrent-lifecycle loop.
type Reconciler struct {
	group    string
	cfg      *domain.ManagerConfig
	settings domain.SettingsConfig

	qbt   *qbtclient.Client
	arr   *arrclient.Client
	filter *policy.Filter
	probe  *policy.MediaProbe

	shared *SharedCache
	gate   DelayGate

	timedIgnore *ttlset.Set
	timedSkip   *ttlset.Set

	sentToScanHashes map[string]struct{}
	sentToScanPaths  map[string]struct{}

	rssSync      *timer
	refreshQueue *timer

	counters *metrics.ManagerCounters
	log      zerolog.Logger

	httpClient *http.Client
}

// New builds a Reconciler for one manager group.
func New(group string, cfg *domain.ManagerConfig, settings domain.SettingsConfig,
	qbtClient *qbtclient.Client, arrClient *arrclient.Client, filter *policy.Filter,
	probe *policy.MediaProbe, shared *SharedCache, gate DelayGate, counters *metrics.ManagerCounters,
	log zerolog.Logger) *Reconciler {

	ignoreTTL := cfg.IgnoreTorrentsYoungerThanDuration()
	return &Reconciler{
		group:            group,
		cfg:              cfg,
		settings:         settings,
		qbt:              qbtClient,
		arr:              arrClient,
		filter:           filter,
		probe:            probe,
		shared:           shared,
		gate:             gate,
		timedIgnore:      ttlset.New(ignoreTTL),
		timedSkip:        ttlset.New(ignoreTTL),
		sentToScanHashes: make(map[string]struct{}),
		sentToScanPaths:  make(map[string]struct{}),
		rssSync:          newTimer(cfg.RssSyncTimer),
		refreshQueue:     newTimer(cfg.RefreshDownloadsTimer),
		counters:         counters,
		log:              log,
		httpClient:       &http.Client{Timeout: 500 * time.Millisecond},
	}
}

// queueState is the per-tick snapshot of each manager's download queue.
type queueState struct {
	byDownloadID    map[string]int
	requeueEpisodes map[int][]int
	requeueMovies   map[int]int
}

// Tick runs one full iteration of the reconciler loop: health/internet
// gates, queue refresh, classification, and the fixed intent flush order.
func (r *Reconciler) Tick(ctx context.Context) error {
	if r.gate != nil && r.gate.ShouldDelay() {
		return nil
	}

	if !hasInternet(ctx, r.httpClient) {
		if r.gate != nil {
			r.gate.SignalNoInternet()
		}
		return ErrNoInternet
	}
	if r.gate != nil {
		r.gate.ClearNoInternet()
	}

	if !r.arr.IsAlive(ctx) {
		return ErrManagerUnreachable
	}
	r.apiCalls(ctx)

	qs, err := r.refreshDownloadQueue(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("reconcile: refresh download queue failed")
		qs = &queueState{byDownloadID: map[string]int{}, requeueEpisodes: map[int][]int{}, requeueMovies: map[int]int{}}
	}

	torrents, err := r.qbt.ListByCategory(ctx, r.cfg.Category)
	if err != nil {
		return err
	}

	intents := newTickIntents()
	now := time.Now()

	for _, t := range torrents {
		hash := strings.ToUpper(t.Hash)
		r.shared.SetName(hash, t.Name)
		r.shared.SetCategory(hash, t.Category)

		in := ClassifyInput{
			FailedCategory:  r.settings.FailedCategory,
			RecheckCategory: r.settings.RecheckCategory,
			Config:          r.cfg,
			Now:             now,
			InTimedIgnore:   r.timedIgnore.Contains(hash),
			InTimedSkip:     r.timedSkip.Contains(hash),
			InSentToScan:    r.inSentToScan(hash),
			Filter:          r.filter,
		}

		decision, err := Classify(hash, t, in, func() ([]qbtclient.FileEntry, error) {
			return r.qbt.Files(ctx, hash)
		})
		if err != nil {
			r.log.Warn().Err(err).Str("hash", hash).Msg("reconcile: classify failed, skipping torrent")
			continue
		}

		if decision.AddToTimedSkip {
			r.timedSkip.Add(hash)
		}

		switch decision.Intent {
		case IntentPause:
			intents.pause[hash] = struct{}{}
			if decision.Import {
				intents.importTorrents = append(intents.importTorrents, t)
			}
		case IntentResume:
			intents.resume[hash] = struct{}{}
		case IntentRecheck:
			intents.recheck[hash] = struct{}{}
		case IntentDelete:
			intents.delete[hash] = struct{}{}
		case IntentSkipBlacklist:
			intents.skipBlacklist[hash] = struct{}{}
		case IntentChangePriority:
			intents.changePriority[hash] = decision.DeprioritizeFileIDs
		}
	}

	r.flush(ctx, intents, qs)

	if r.cfg.AutoDelete && intents.needsCleanup {
		r.cleanupCompletedFolder(ctx)
	}

	return nil
}

func (r *Reconciler) inSentToScan(hash string) bool {
	_, ok := r.sentToScanHashes[hash]
	return ok
}

// apiCalls issues RssSync/RefreshMonitoredDownloads on independent timers
// (§4.1, §12 item 1).
func (r *Reconciler) apiCalls(ctx context.Context) {
	now := time.Now()
	if r.rssSync.Due(now) {
		if err := r.arr.RssSync(ctx); err != nil {
			r.log.Warn().Err(err).Msg("reconcile: RssSync failed")
		}
	}
	if r.refreshQueue.Due(now) {
		if err := r.arr.RefreshMonitoredDownloads(ctx); err != nil {
			r.log.Warn().Err(err).Msg("reconcile: RefreshMonitoredDownloads failed")
		}
	}
}

// refreshDownloadQueue builds the queue-id/requeue maps the failed-torrent
// flush step needs to resolve a hash back to a manager queue entry.
func (r *Reconciler) refreshDownloadQueue(ctx context.Context) (*queueState, error) {
	records, err := r.arr.GetQueue(ctx)
	if err != nil {
		return nil, err
	}

	qs := &queueState{
		byDownloadID:    make(map[string]int, len(records)),
		requeueEpisodes: make(map[int][]int, len(records)),
		requeueMovies:   make(map[int]int, len(records)),
	}
	for _, rec := range records {
		if rec.DownloadID != "" {
			qs.byDownloadID[strings.ToUpper(rec.DownloadID)] = rec.ID
		}
		if len(rec.EpisodeIDs) > 0 {
			qs.requeueEpisodes[rec.ID] = rec.EpisodeIDs
		}
		if rec.MovieID != 0 {
			qs.requeueMovies[rec.ID] = rec.MovieID
		}
	}
	return qs, nil
}
