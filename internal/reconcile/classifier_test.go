// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"testing"
	"time"

	qbt "github.com/autobrr/go-qbittorrent"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/qbitrr/internal/domain"
	"github.com/autobrr/qbitrr/internal/policy"
	"github.com/autobrr/qbitrr/internal/qbtclient"
)

func baseInput(t *testing.T) ClassifyInput {
	t.Helper()
	cfg := &domain.ManagerConfig{
		MaximumDeletablePercentage: 0.95,
		MaximumETA:                 86400,
		IgnoreTorrentsYoungerThan:  600,
		FileExtensionAllowlist:     []string{".mkv"},
	}
	filter, err := policy.New(cfg)
	require.NoError(t, err)
	return ClassifyInput{
		FailedCategory:  "failed",
		RecheckCategory: "recheck",
		Config:          cfg,
		Now:             time.Now(),
		Filter:          filter,
	}
}

func noFiles() ([]qbtclient.FileEntry, error) { return nil, nil }

func TestClassifyFailedCategoryWins(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{Category: "failed", State: qbt.TorrentStateDownloading}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentDelete, d.Intent)
}

func TestClassifyRecheckCategory(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{Category: "recheck"}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentRecheck, d.Intent)
}

func TestClassifyIgnoredStateSkips(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{Category: "movies", State: qbt.TorrentStateAllocating}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentNone, d.Intent)
}

func TestClassifyTimedCachesSkip(t *testing.T) {
	in := baseInput(t)
	in.InTimedIgnore = true
	torrent := qbt.Torrent{Category: "movies", State: qbt.TorrentStateDownloading}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentNone, d.Intent)
}

func TestClassifyStalledNearCompleteDeletesWhenInactive(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{
		Category:     "movies",
		State:        qbt.TorrentStateStalledDl,
		Progress:     0.99,
		LastActivity: time.Now().Add(-2 * 24 * time.Hour).Unix(),
	}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentDelete, d.Intent)
}

func TestClassifyErrorStateRechecks(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{Category: "movies", State: qbt.TorrentStateError}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentRecheck, d.Intent)
}

func TestClassifyCompletedImportsAndPauses(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{
		Category:     "movies",
		State:        qbt.TorrentStateStalledUp,
		AddedOn:      time.Now().Add(-2 * time.Hour).Unix(),
		AmountLeft:   0,
		ContentPath:  "/c/cat/x.mkv",
		CompletionOn: time.Now().Add(-time.Minute).Unix(),
	}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentPause, d.Intent)
	require.True(t, d.Import)
}

func TestClassifyMissingFilesSkipsBlacklist(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{Category: "movies", State: qbt.TorrentStateMissingFiles}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentSkipBlacklist, d.Intent)
}

func TestClassifyPausedDownloadIncompleteResumes(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{Category: "movies", State: qbt.TorrentStatePausedDl, Progress: 0.5}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentResume, d.Intent)
}

func TestClassifyStalledDownloadYoungTracksTimedSkip(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{
		Category: "movies",
		State:    qbt.TorrentStateStalledDl,
		AddedOn:  time.Now().Unix(),
	}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentNone, d.Intent)
	require.True(t, d.AddToTimedSkip)
}

func TestClassifyStalledDownloadOldDeletes(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{
		Category: "movies",
		State:    qbt.TorrentStateStalledDl,
		AddedOn:  time.Now().Add(-2 * time.Hour).Unix(),
	}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentDelete, d.Intent)
	require.True(t, d.AddToTimedSkip)
}

func TestClassifyFinishedSeedingPauses(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{
		Category:    "movies",
		State:       qbt.TorrentStateUploading,
		SeedingTime: 10,
		AmountLeft:  0,
		AddedOn:     time.Now().Unix(),
		ContentPath: "/c/cat/x.mkv",
	}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentPause, d.Intent)
}

func TestClassifyDownloadingTooOldBadETADeletes(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{
		Category: "movies",
		State:    qbt.TorrentStateDownloading,
		AddedOn:  time.Now().Add(-2 * time.Hour).Unix(),
		ETA:      999999,
	}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentDelete, d.Intent)
}

func TestClassifyDownloadingLowAvailabilityDeletes(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{
		Category:     "movies",
		State:        qbt.TorrentStateDownloading,
		AddedOn:      time.Now().Add(-2 * time.Hour).Unix(),
		ETA:          10,
		Availability: 0.2,
	}
	d, err := Classify("H1", torrent, in, noFiles)
	require.NoError(t, err)
	require.Equal(t, IntentDelete, d.Intent)
}

func TestClassifyDownloadingFileFilterDeprioritizes(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{
		Category: "movies",
		State:    qbt.TorrentStateDownloading,
		AddedOn:  time.Now().Unix(),
	}
	files := []qbtclient.FileEntry{
		{ID: 0, Name: "movie.mkv", Priority: 1},
		{ID: 1, Name: "notes.txt", Priority: 1},
	}
	d, err := Classify("H1", torrent, in, func() ([]qbtclient.FileEntry, error) { return files, nil })
	require.NoError(t, err)
	require.Equal(t, IntentChangePriority, d.Intent)
	require.Equal(t, []int{1}, d.DeprioritizeFileIDs)
}

func TestClassifyDownloadingAllFilesDisallowedDeletes(t *testing.T) {
	in := baseInput(t)
	torrent := qbt.Torrent{
		Category: "movies",
		State:    qbt.TorrentStateDownloading,
		AddedOn:  time.Now().Unix(),
	}
	files := []qbtclient.FileEntry{
		{ID: 0, Name: "notes.txt", Priority: 1},
	}
	d, err := Classify("H1", torrent, in, func() ([]qbtclient.FileEntry, error) { return files, nil })
	require.NoError(t, err)
	require.Equal(t, IntentDelete, d.Intent)
}
