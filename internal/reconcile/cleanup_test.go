// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/autobrr/qbitrr/internal/domain"
	"github.com/autobrr/qbitrr/internal/policy"
)

func newCleanupTestReconciler(t *testing.T, completedFolder, category string) *Reconciler {
	t.Helper()

	cfg := domain.DefaultManagerConfig()
	cfg.Category = category
	cfg.FileExtensionAllowlist = []string{".mkv"}

	filter, err := policy.New(&cfg)
	if err != nil {
		t.Fatalf("policy.New: %v", err)
	}

	settings := domain.DefaultSettings()
	settings.CompletedDownloadFolder = completedFolder

	return New("test", &cfg, settings, nil, nil, filter, policy.NewMediaProbe(), nil, nil, nil, zerolog.Nop())
}

// TestCleanupCompletedFolderRecursesIntoReleaseSubfolders covers the common
// qBittorrent import layout of category/Release.Name/file.ext, where the
// wanted file and the junk sitting beside it are both a folder deep.
func TestCleanupCompletedFolderRecursesIntoReleaseSubfolders(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "tv")
	release := filepath.Join(root, "Release.Name.1080p")
	if err := os.MkdirAll(release, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	keep := filepath.Join(release, "episode.mkv")
	junk := filepath.Join(release, "episode.nfo")
	if err := os.WriteFile(keep, []byte("video"), 0o644); err != nil {
		t.Fatalf("write keep: %v", err)
	}
	if err := os.WriteFile(junk, []byte("junk"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	r := newCleanupTestReconciler(t, base, "tv")
	r.cleanupCompletedFolder(context.Background())

	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("expected allowlisted file to survive: %v", err)
	}
	if _, err := os.Stat(junk); !os.IsNotExist(err) {
		t.Fatalf("expected non-allowlisted file to be removed, stat err=%v", err)
	}
}

// TestCleanupCompletedFolderPrunesNestedEmptyDirs covers a release folder
// that is entirely junk: after removal it, and its now-empty parent, must
// both be pruned bottom-up.
func TestCleanupCompletedFolderPrunesNestedEmptyDirs(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "tv")
	release := filepath.Join(root, "Release.Name.1080p")
	if err := os.MkdirAll(release, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(release, "episode.nfo"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	r := newCleanupTestReconciler(t, base, "tv")
	r.sentToScanPaths[release] = struct{}{}
	r.cleanupCompletedFolder(context.Background())

	if _, err := os.Stat(release); !os.IsNotExist(err) {
		t.Fatalf("expected release folder to be pruned, stat err=%v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("expected now-empty category root to be pruned, stat err=%v", err)
	}
	if _, ok := r.sentToScanPaths[release]; ok {
		t.Fatalf("expected pruned directory to be dropped from sentToScanPaths")
	}
}
