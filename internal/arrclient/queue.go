// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package arrclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/autobrr/qbitrr/internal/domain"
)

// GetQueue fetches the manager's current download queue, aggregating
// episode ids onto a single queue row the way a real Sonarr queue entry
// can reference several episodes of the same download (§4.1
// refresh_download_queue).
func (c *Client) GetQueue(ctx context.Context) ([]QueueRecord, error) {
	switch c.variant {
	case domain.VariantSonarr:
		return c.getSonarrQueue(ctx)
	default:
		return c.getRadarrQueue(ctx)
	}
}

func (c *Client) getSonarrQueue(ctx context.Context) ([]QueueRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v3/queue?pageSize=10000", nil)
	if err != nil {
		return nil, err
	}

	var raw []sonarrQueueRecord
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}

	byQueueID := make(map[int]*QueueRecord)
	order := make([]int, 0, len(raw))
	for _, r := range raw {
		rec, ok := byQueueID[r.ID]
		if !ok {
			rec = &QueueRecord{ID: r.ID, DownloadID: r.DownloadID}
			byQueueID[r.ID] = rec
			order = append(order, r.ID)
		}
		rec.EpisodeIDs = append(rec.EpisodeIDs, r.EpisodeID)
	}

	out := make([]QueueRecord, 0, len(order))
	for _, id := range order {
		out = append(out, *byQueueID[id])
	}
	return out, nil
}

func (c *Client) getRadarrQueue(ctx context.Context) ([]QueueRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v3/queue?pageSize=10000", nil)
	if err != nil {
		return nil, err
	}

	var resp radarrQueueResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	out := make([]QueueRecord, 0, len(resp.Records))
	for _, r := range resp.Records {
		out = append(out, QueueRecord{ID: r.ID, DownloadID: r.DownloadID, MovieID: r.MovieID})
	}
	return out, nil
}

// GetEpisodeByID fetches a single episode's detail, best-effort used only
// for enriching log lines (§12 item 6).
func (c *Client) GetEpisodeByID(ctx context.Context, id int) (*Episode, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v3/episode/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var ep Episode
	if err := c.do(req, &ep); err != nil {
		return nil, err
	}
	return &ep, nil
}

// GetMovieByID fetches a single movie's detail, best-effort.
func (c *Client) GetMovieByID(ctx context.Context, id int) (*Movie, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v3/movie/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var m Movie
	if err := c.do(req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// RssSync issues the manager's periodic RSS sync command.
func (c *Client) RssSync(ctx context.Context) error {
	return c.PostCommand(ctx, "RssSync", nil)
}

// RefreshMonitoredDownloads issues the manager's queue-refresh command.
func (c *Client) RefreshMonitoredDownloads(ctx context.Context) error {
	return c.PostCommand(ctx, "RefreshMonitoredDownloads", nil)
}

// EpisodeSearch requests a re-search for one or more episodes.
func (c *Client) EpisodeSearch(ctx context.Context, episodeIDs []int) error {
	return c.PostCommand(ctx, "EpisodeSearch", map[string]any{"episodeIds": episodeIDs})
}

// MoviesSearch requests a re-search for one or more movies.
func (c *Client) MoviesSearch(ctx context.Context, movieIDs []int) error {
	return c.PostCommand(ctx, "MoviesSearch", map[string]any{"movieIds": movieIDs})
}

// DownloadedEpisodesScan tells the manager to import a completed download.
func (c *Client) DownloadedEpisodesScan(ctx context.Context, path, downloadClientID, importMode string) error {
	return c.PostCommand(ctx, "DownloadedEpisodesScan", map[string]any{
		"path":             path,
		"downloadClientId": downloadClientID,
		"importMode":       importMode,
	})
}
