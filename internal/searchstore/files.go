// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package searchstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/autobrr/qbitrr/internal/catalog"
)

// UpsertFile mirrors one catalog item into the local Files table. The
// searched column is OR-updated: once an item has acquired a file it stays
// marked searched=true even if a later catalog read shows the file removed.
func (s *Store) UpsertFile(ctx context.Context, item catalog.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (
			entry_id, series_id, series_title, season_number, episode_number,
			title, air_date_utc, year, tmdb_id, file_id, monitored, searched
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(entry_id) DO UPDATE SET
			series_id      = excluded.series_id,
			series_title   = excluded.series_title,
			season_number  = excluded.season_number,
			episode_number = excluded.episode_number,
			title          = excluded.title,
			air_date_utc   = excluded.air_date_utc,
			year           = excluded.year,
			tmdb_id        = excluded.tmdb_id,
			file_id        = excluded.file_id,
			monitored      = excluded.monitored,
			searched       = files.searched OR excluded.searched`,
		item.EntryID, item.SeriesID, item.SeriesTitle, item.SeasonNumber, item.EpisodeNumber,
		item.Title, item.AirDateUTC, item.Year, item.TmdbID, item.FileID, item.Monitored,
		item.FileID != 0)
	if err != nil {
		return errors.Wrapf(err, "upserting file %d", item.EntryID)
	}

	if item.FileID != 0 {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE pending_search SET completed = 1 WHERE entry_id = ?`, item.EntryID); err != nil {
			return errors.Wrapf(err, "completing pending search for %d", item.EntryID)
		}
	}
	return nil
}

// EntryIDs returns every entry-id currently tracked in the local Files
// table, used by the "db_update keeps the local set in sync" property.
func (s *Store) EntryIDs(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT entry_id FROM files`)
	if err != nil {
		return nil, errors.Wrap(err, "listing file entry ids")
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scanning entry id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IsSearched reports the current value of a tracked item's searched flag.
func (s *Store) IsSearched(ctx context.Context, entryID int) (bool, error) {
	var searched bool
	err := s.db.QueryRowContext(ctx, `SELECT searched FROM files WHERE entry_id = ?`, entryID).Scan(&searched)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "reading searched flag for %d", entryID)
	}
	return searched, nil
}
