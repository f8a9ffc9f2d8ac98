// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package qbtclient

import (
	"slices"

	qbt "github.com/autobrr/go-qbittorrent"
)

// State-set predicates used by the Reconciler's classifier, dispatching on
// field-to-state-set membership rather than a single switch statement.

var ignoredStates = []qbt.TorrentState{
	qbt.TorrentStateForcedDl,
	qbt.TorrentStateForcedUp,
	qbt.TorrentStateCheckingUp,
	qbt.TorrentStateCheckingDl,
	qbt.TorrentStateCheckingResumeData,
	qbt.TorrentStateAllocating,
	qbt.TorrentStateMoving,
}

var completeStates = []qbt.TorrentState{
	qbt.TorrentStateUploading,
	qbt.TorrentStateStalledUp,
	qbt.TorrentStatePausedUp,
	qbt.TorrentStateQueuedUp,
}

var downloadingStates = []qbt.TorrentState{
	qbt.TorrentStateDownloading,
	qbt.TorrentStatePausedDl,
}

var uploadingStates = []qbt.TorrentState{
	qbt.TorrentStateUploading,
	qbt.TorrentStateStalledUp,
	qbt.TorrentStateQueuedUp,
}

func IsIgnoredState(s qbt.TorrentState) bool     { return slices.Contains(ignoredStates, s) }
func IsCompleteState(s qbt.TorrentState) bool    { return slices.Contains(completeStates, s) }
func IsDownloadingState(s qbt.TorrentState) bool { return slices.Contains(downloadingStates, s) }
func IsUploadingState(s qbt.TorrentState) bool   { return slices.Contains(uploadingStates, s) }
