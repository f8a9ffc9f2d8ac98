// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package qbtclient

import (
	"context"
	"strconv"
	"strings"

	qbt "github.com/autobrr/go-qbittorrent"
)

// ListByCategory returns the torrent snapshot for one category, sorted by
// added-on ascending as required by §6.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]qbt.Torrent, error) {
	return c.GetTorrentsCtx(ctx, qbt.TorrentFilterOptions{
		Category: category,
		Sort:     "added_on",
		Reverse:  false,
	})
}

func normalizeHashes(hashes []string) []string {
	out := make([]string, len(hashes))
	for i, h := range hashes {
		out[i] = strings.ToUpper(h)
	}
	return out
}

func (c *Client) Pause(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	return c.PauseCtx(ctx, normalizeHashes(hashes))
}

func (c *Client) Resume(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	return c.ResumeCtx(ctx, normalizeHashes(hashes))
}

func (c *Client) Recheck(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	return c.RecheckCtx(ctx, normalizeHashes(hashes))
}

func (c *Client) DeleteWithFiles(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	return c.DeleteTorrentsCtx(ctx, normalizeHashes(hashes), true)
}

// SetFilePriority sets the priority of a torrent's files, used by the
// Reconciler's file-level filtering (§4.1 rule 14) to deprioritize files.
func (c *Client) SetFilePriority(ctx context.Context, hash string, fileIDs []int, priority int) error {
	ids := make([]string, len(fileIDs))
	for i, id := range fileIDs {
		ids[i] = strconv.Itoa(id)
	}
	return c.SetFilePriorityCtx(ctx, strings.ToUpper(hash), strings.Join(ids, "|"), priority)
}

// SetCategory is used by the placeholder reconciler to restore a torrent's
// original category after issuing a recheck (§12 item 3).
func (c *Client) SetCategory(ctx context.Context, hashes []string, category string) error {
	if len(hashes) == 0 {
		return nil
	}
	return c.SetCategoryCtx(ctx, normalizeHashes(hashes), category)
}
