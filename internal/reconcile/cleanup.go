// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"context"
	"os"
	"path/filepath"
)

// cleanupCompletedFolder walks the manager's completed-downloads directory,
// at any depth, removing every file that is off the extension allowlist or
// is not probeable media, then pruning directories left empty. Release imports
// routinely land a folder deep (category/Release.Name/file.mkv), so the walk
// must descend into subdirectories even though it never removes them itself.
func (r *Reconciler) cleanupCompletedFolder(ctx context.Context) {
	if r.settings.CompletedDownloadFolder == "" {
		return
	}
	root := filepath.Join(r.settings.CompletedDownloadFolder, r.cfg.Category)

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == "desktop.ini" || name == ".DS_Store" {
			return nil
		}

		keep := r.filter.AllowedExtension(name) && r.probe.Probeable(path)
		if !keep {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				r.log.Warn().Err(err).Str("path", path).Msg("reconcile: cleanup could not remove file")
			}
		}
		return nil
	})

	r.pruneEmptyDirs(root)
}

// pruneEmptyDirs removes dir and every subdirectory left empty after
// cleanupCompletedFolder's removal pass, recursing bottom-up so a directory
// that only held now-pruned children is itself detected as empty.
func (r *Reconciler) pruneEmptyDirs(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	empty := true
	for _, entry := range entries {
		if !entry.IsDir() {
			empty = false
			continue
		}
		if r.pruneEmptyDirs(filepath.Join(dir, entry.Name())) {
			continue
		}
		empty = false
	}
	if !empty {
		return false
	}

	if err := os.Remove(dir); err != nil {
		return false
	}
	delete(r.sentToScanPaths, dir)
	return true
}
