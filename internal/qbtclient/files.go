// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package qbtclient

import (
	"context"
	"strings"
)

// FileEntry is the Reconciler's view of one file within a torrent, decoupled
// from the underlying client library's row type.
type FileEntry struct {
	ID       int
	Name     string
	Priority int
}

// Files returns the file listing for a torrent, used by the Reconciler's
// file-level filtering (§4.1 rule 14).
func (c *Client) Files(ctx context.Context, hash string) ([]FileEntry, error) {
	raw, err := c.GetFilesInformationCtx(ctx, strings.ToUpper(hash))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	out := make([]FileEntry, len(*raw))
	for i, f := range *raw {
		out[i] = FileEntry{ID: f.Index, Name: f.Name, Priority: int(f.Priority)}
	}
	return out, nil
}
