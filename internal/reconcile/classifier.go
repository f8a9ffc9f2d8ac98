// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"time"

	qbt "github.com/autobrr/go-qbittorrent"

	"github.com/autobrr/qbitrr/internal/domain"
	"github.com/autobrr/qbitrr/internal/policy"
	"github.com/autobrr/qbitrr/internal/qbtclient"
)

// Intent is the action the classifier assigns to one torrent for the
// current tick.
type Intent int

const (
	IntentNone Intent = iota
	IntentPause
	IntentResume
	IntentRecheck
	IntentDelete
	IntentSkipBlacklist
	IntentChangePriority
)

// Decision is the classifier's verdict for one torrent, plus the side
// effects that accompany some branches.
type Decision struct {
	Intent              Intent
	DeprioritizeFileIDs []int
	Import              bool // rule 8: enqueue for manager import scan
	AddToTimedSkip      bool // rule 11: always tracked even when not deleted
}

// ClassifyInput bundles everything the classifier needs about one torrent
// beyond the torrent row itself.
type ClassifyInput struct {
	FailedCategory, RecheckCategory string
	Config                          *domain.ManagerConfig
	Now                             time.Time
	InTimedIgnore, InTimedSkip      bool
	InSentToScan                    bool
	Filter                          *policy.Filter
}

// Classify evaluates the rule-14 classifier top to bottom, first match
// wins. loadFiles is invoked only if rule 14's file-level scan is reached,
// to avoid an unnecessary round trip for every other branch.
func Classify(hash string, t qbt.Torrent, in ClassifyInput, loadFiles func() ([]qbtclient.FileEntry, error)) (Decision, error) {
	now := in.Now
	cfg := in.Config

	// 1. Failed category.
	if t.Category == in.FailedCategory {
		return Decision{Intent: IntentDelete}, nil
	}
	// 2. Recheck category.
	if t.Category == in.RecheckCategory {
		return Decision{Intent: IntentRecheck}, nil
	}
	// 3. Ignored states.
	if qbtclient.IsIgnoredState(t.State) {
		return Decision{Intent: IntentNone}, nil
	}
	// 4. Timed caches.
	if in.InTimedIgnore || in.InTimedSkip {
		return Decision{Intent: IntentNone}, nil
	}
	// 5. Near-complete stall.
	if t.Progress >= cfg.MaximumDeletablePercentage && !qbtclient.IsCompleteState(t.State) {
		if time.Unix(t.LastActivity, 0).Before(now.Add(-cfg.MaximumETADuration())) {
			return Decision{Intent: IntentDelete}, nil
		}
		return Decision{Intent: IntentNone}, nil
	}
	// 6. Already sent to scan.
	if in.InSentToScan {
		return Decision{Intent: IntentNone}, nil
	}
	// 7. Error state.
	if t.State == qbt.TorrentStateError {
		return Decision{Intent: IntentRecheck}, nil
	}
	// 8. Completed, ready to import.
	if t.AddedOn > 0 && t.AmountLeft == 0 && qbtclient.IsCompleteState(t.State) &&
		t.ContentPath != "" && time.Unix(t.CompletionOn, 0).Before(now.Add(-30*time.Second)) {
		return Decision{Intent: IntentPause, Import: true}, nil
	}
	// 9. Missing files.
	if t.State == qbt.TorrentStateMissingFiles {
		return Decision{Intent: IntentSkipBlacklist}, nil
	}
	// 10. Paused but not finished.
	if t.State == qbt.TorrentStatePausedDl && t.Progress < 1 {
		return Decision{Intent: IntentResume}, nil
	}
	// 11. Metadata/stalled download.
	if t.State == qbt.TorrentStateMetaDl || t.State == qbt.TorrentStateStalledDl {
		d := Decision{Intent: IntentNone, AddToTimedSkip: true}
		if time.Unix(t.AddedOn, 0).Before(now.Add(-cfg.IgnoreTorrentsYoungerThanDuration())) {
			d.Intent = IntentDelete
		}
		return d, nil
	}
	// 12. Finished seeding.
	if qbtclient.IsUploadingState(t.State) && t.SeedingTime > 1 && t.AmountLeft == 0 &&
		t.AddedOn > 0 && t.ContentPath != "" {
		return Decision{Intent: IntentPause}, nil
	}
	// 13/14. Downloading.
	if qbtclient.IsDownloadingState(t.State) && t.State != qbt.TorrentStatePausedDl {
		tooOld := time.Unix(t.AddedOn, 0).Before(now.Add(-cfg.IgnoreTorrentsYoungerThanDuration()))
		if tooOld && t.ETA > int64(cfg.MaximumETADuration().Seconds()) {
			return Decision{Intent: IntentDelete}, nil
		}
		if tooOld && t.Availability < 1 {
			return Decision{Intent: IntentDelete}, nil
		}

		files, err := loadFiles()
		if err != nil {
			return Decision{}, err
		}
		deprioritize, remaining := in.Filter.Classify(files)
		if remaining == 0 {
			return Decision{Intent: IntentDelete}, nil
		}
		if len(deprioritize) > 0 {
			return Decision{Intent: IntentChangePriority, DeprioritizeFileIDs: deprioritize}, nil
		}
		return Decision{Intent: IntentNone}, nil
	}

	return Decision{Intent: IntentNone}, nil
}
