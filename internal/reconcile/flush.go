// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"context"
	"os"
	"strings"
)

// flush runs steps 1-6 of the fixed 7-step intent flush order; step 7,
// folder cleanup, runs from Tick after flush returns.
func (r *Reconciler) flush(ctx context.Context, intents *tickIntents, qs *queueState) {
	r.processPaused(ctx, intents)
	r.processErrored(ctx, intents)
	r.processFilePriority(ctx, intents)
	r.processImports(ctx, intents)
	r.processFailed(ctx, intents, qs)
	r.processResume(ctx, intents)
}

func (r *Reconciler) processPaused(ctx context.Context, intents *tickIntents) {
	if len(intents.pause) == 0 {
		return
	}
	hashes := hashSlice(intents.pause)
	if err := r.qbt.Pause(ctx, hashes); err != nil {
		r.log.Warn().Err(err).Msg("reconcile: pause failed")
	}
	r.counters.Paused.Add(int64(len(hashes)))
	intents.needsCleanup = true
	intents.pause = make(map[string]struct{})
}

func (r *Reconciler) processErrored(ctx context.Context, intents *tickIntents) {
	if len(intents.recheck) == 0 {
		return
	}
	hashes := hashSlice(intents.recheck)
	if err := r.qbt.Recheck(ctx, hashes); err != nil {
		r.log.Warn().Err(err).Msg("reconcile: recheck failed")
	}
	for _, h := range hashes {
		r.timedIgnore.Add(h)
	}
	r.counters.Rechecked.Add(int64(len(hashes)))
	intents.recheck = make(map[string]struct{})
}

func (r *Reconciler) processFilePriority(ctx context.Context, intents *tickIntents) {
	for hash, fileIDs := range intents.changePriority {
		if err := r.qbt.SetFilePriority(ctx, hash, fileIDs, 0); err != nil {
			r.log.Warn().Err(err).Str("hash", hash).Msg("reconcile: set file priority failed")
			continue
		}
		r.counters.PriorityChanged.Add(1)
	}
	intents.changePriority = make(map[string][]int)
}

func (r *Reconciler) processImports(ctx context.Context, intents *tickIntents) {
	for _, t := range intents.importTorrents {
		hash := strings.ToUpper(t.Hash)

		if _, err := os.Stat(t.ContentPath); err != nil {
			intents.skipBlacklist[hash] = struct{}{}
			continue
		}

		_, hashSent := r.sentToScanHashes[hash]
		_, pathSent := r.sentToScanPaths[t.ContentPath]
		if hashSent || pathSent {
			continue
		}

		importMode := r.cfg.ImportMode
		if importMode == "" {
			importMode = "Move"
		}
		if err := r.arr.DownloadedEpisodesScan(ctx, t.ContentPath, hash, importMode); err != nil {
			r.log.Warn().Err(err).Str("hash", hash).Msg("reconcile: import scan failed")
			continue
		}
		r.sentToScanHashes[hash] = struct{}{}
		r.sentToScanPaths[t.ContentPath] = struct{}{}
	}
	intents.importTorrents = nil
}

func (r *Reconciler) processFailed(ctx context.Context, intents *tickIntents, qs *queueState) {
	failed := make(map[string]struct{}, len(intents.delete)+len(intents.skipBlacklist))
	for h := range intents.delete {
		failed[h] = struct{}{}
	}
	for h := range intents.skipBlacklist {
		failed[h] = struct{}{}
	}
	if len(failed) == 0 {
		return
	}

	for hash := range failed {
		queueID, ok := qs.byDownloadID[hash]
		if !ok {
			continue
		}
		_, blacklist := intents.delete[hash]

		if err := r.arr.DeleteQueueEntry(ctx, queueID, true, blacklist); err != nil {
			r.log.Warn().Err(err).Str("hash", hash).Msg("reconcile: delete queue entry failed")
		}
		r.requeue(ctx, queueID, qs)
	}

	hashes := hashSlice(failed)
	if err := r.qbt.DeleteWithFiles(ctx, hashes); err != nil {
		r.log.Warn().Err(err).Msg("reconcile: delete torrents failed")
	}
	for _, h := range hashes {
		r.shared.Evict(h)
	}

	r.counters.Deleted.Add(int64(len(intents.delete)))
	r.counters.SkipBlacklisted.Add(int64(len(intents.skipBlacklist)))
	intents.delete = make(map[string]struct{})
	intents.skipBlacklist = make(map[string]struct{})
}

// requeue issues the manager's re-search command for a removed queue entry,
// resolving detail for richer logging on a best-effort basis (§12 item 6).
func (r *Reconciler) requeue(ctx context.Context, queueID int, qs *queueState) {
	if episodeIDs, ok := qs.requeueEpisodes[queueID]; ok && len(episodeIDs) > 0 {
		r.logRequeueDetail(ctx, episodeIDs)
		if err := r.arr.EpisodeSearch(ctx, episodeIDs); err != nil {
			r.log.Warn().Err(err).Ints("episodeIds", episodeIDs).Msg("reconcile: episode re-search failed")
		}
		return
	}
	if movieID, ok := qs.requeueMovies[queueID]; ok {
		if movie, err := r.arr.GetMovieByID(ctx, movieID); err == nil {
			r.log.Info().Str("title", movie.Title).Int("movieId", movieID).Msg("reconcile: re-searching movie")
		}
		if err := r.arr.MoviesSearch(ctx, []int{movieID}); err != nil {
			r.log.Warn().Err(err).Int("movieId", movieID).Msg("reconcile: movie re-search failed")
		}
	}
}

func (r *Reconciler) logRequeueDetail(ctx context.Context, episodeIDs []int) {
	for _, id := range episodeIDs {
		ep, err := r.arr.GetEpisodeByID(ctx, id)
		if err != nil {
			continue
		}
		r.log.Info().
			Str("series", ep.SeriesTitle).
			Int("season", ep.SeasonNumber).
			Int("episode", ep.EpisodeNumber).
			Msg("reconcile: re-searching episode")
	}
}

// delegatedFailed handles hashes a placeholder reconciler routed to this
// manager because they originally belonged to its category (§4.1
// "Placeholder reconciler").
func (r *Reconciler) delegatedFailed(ctx context.Context, hashes []string) {
	qs, err := r.refreshDownloadQueue(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("reconcile: delegated refresh download queue failed")
		qs = &queueState{byDownloadID: map[string]int{}, requeueEpisodes: map[int][]int{}, requeueMovies: map[int]int{}}
	}

	for _, hash := range hashes {
		queueID, ok := qs.byDownloadID[hash]
		if !ok {
			continue
		}
		if err := r.arr.DeleteQueueEntry(ctx, queueID, true, true); err != nil {
			r.log.Warn().Err(err).Str("hash", hash).Msg("reconcile: delegated delete queue entry failed")
		}
		r.requeue(ctx, queueID, qs)
	}

	if err := r.qbt.DeleteWithFiles(ctx, hashes); err != nil {
		r.log.Warn().Err(err).Msg("reconcile: delegated delete torrents failed")
	}
	for _, h := range hashes {
		r.shared.Evict(h)
	}
	r.counters.Deleted.Add(int64(len(hashes)))
}

func (r *Reconciler) processResume(ctx context.Context, intents *tickIntents) {
	if len(intents.resume) == 0 {
		return
	}
	hashes := hashSlice(intents.resume)
	if err := r.qbt.Resume(ctx, hashes); err != nil {
		r.log.Warn().Err(err).Msg("reconcile: resume failed")
	}
	for _, h := range hashes {
		r.timedIgnore.Add(h)
	}
	r.counters.Resumed.Add(int64(len(hashes)))
	intents.resume = make(map[string]struct{})
}
