// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/autobrr/qbitrr/internal/domain"
)

// Reader is a read-only connection to a manager's own catalog database.
type Reader struct {
	db      *sql.DB
	variant domain.Variant
}

// Open opens the catalog file read-only. Returns an error the caller should
// treat as a missing-catalog condition — the Search Scheduler downgrades
// SearchMissing rather than treating this as fatal.
func Open(path string, variant domain.Variant) (*Reader, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog %s", path)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "opening catalog %s", path)
	}
	return &Reader{db: db, variant: variant}, nil
}

func (r *Reader) Close() error {
	return r.db.Close()
}

// ItemsInYear returns every catalog row whose year window matches the
// scheduler's current year, per §4.2 db_update's filter. For episodes this
// is AirDateUtc within [year, year+1); for movies, Year == year.
func (r *Reader) ItemsInYear(ctx context.Context, year int) ([]Item, error) {
	if r.variant == domain.VariantSonarr {
		return r.episodesInYear(ctx, year)
	}
	return r.moviesInYear(ctx, year)
}

func (r *Reader) episodesInYear(ctx context.Context, year int) ([]Item, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)

	rows, err := r.db.QueryContext(ctx, `
		SELECT e.Id, e.SeriesId, s.Title, e.SeasonNumber, e.EpisodeNumber,
		       e.AbsoluteEpisodeNumber, e.SceneAbsoluteEpisodeNumber, e.Title,
		       e.AirDateUtc, e.EpisodeFileId, e.Monitored
		FROM Episodes e
		LEFT JOIN Series s ON s.Id = e.SeriesId
		WHERE e.AirDateUtc >= ? AND e.AirDateUtc < ? AND e.AirDateUtc < ?`,
		start, end, time.Now().UTC())
	if err != nil {
		return nil, errors.Wrapf(err, "querying episodes for year %d", year)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var airDate sql.NullTime
		var seriesTitle sql.NullString
		if err := rows.Scan(&it.EntryID, &it.SeriesID, &seriesTitle, &it.SeasonNumber,
			&it.EpisodeNumber, &it.AbsoluteEpisodeNumber, &it.SceneAbsoluteEpisodeNumber,
			&it.Title, &airDate, &it.FileID, &it.Monitored); err != nil {
			return nil, errors.Wrap(err, "scanning episode row")
		}
		it.SeriesTitle = seriesTitle.String
		it.AirDateUTC = airDate.Time
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Reader) moviesInYear(ctx context.Context, year int) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT Id, Title, Year, TmdbId, Monitored, MovieFileId
		FROM Movies
		WHERE Year = ?
		ORDER BY Added DESC`, year)
	if err != nil {
		return nil, errors.Wrapf(err, "querying movies for year %d", year)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.EntryID, &it.Title, &it.Year, &it.TmdbID, &it.Monitored, &it.FileID); err != nil {
			return nil, errors.Wrap(err, "scanning movie row")
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// MissingInYear returns db_get_files candidates: items with no file in the
// given year window, excluding specials when alsoSearchSpecials is false.
func (r *Reader) MissingInYear(ctx context.Context, year int, alsoSearchSpecials bool) ([]Item, error) {
	if r.variant == domain.VariantSonarr {
		return r.missingEpisodesInYear(ctx, year, alsoSearchSpecials)
	}
	return r.missingMoviesInYear(ctx, year)
}

func (r *Reader) missingEpisodesInYear(ctx context.Context, year int, alsoSearchSpecials bool) ([]Item, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)

	query := `
		SELECT e.Id, e.SeriesId, s.Title, e.SeasonNumber, e.EpisodeNumber,
		       e.AbsoluteEpisodeNumber, e.SceneAbsoluteEpisodeNumber, e.Title,
		       e.AirDateUtc, e.EpisodeFileId, e.Monitored
		FROM Episodes e
		LEFT JOIN Series s ON s.Id = e.SeriesId
		WHERE e.EpisodeFileId = 0 AND e.AirDateUtc >= ? AND e.AirDateUtc < ? AND e.AirDateUtc < ?`
	args := []any{start, end, time.Now().UTC()}
	if !alsoSearchSpecials {
		query += " AND e.SeasonNumber != 0"
	}
	query += " ORDER BY s.Title ASC, e.SeasonNumber ASC, e.AirDateUtc DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "querying missing episodes for year %d", year)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var airDate sql.NullTime
		var seriesTitle sql.NullString
		if err := rows.Scan(&it.EntryID, &it.SeriesID, &seriesTitle, &it.SeasonNumber,
			&it.EpisodeNumber, &it.AbsoluteEpisodeNumber, &it.SceneAbsoluteEpisodeNumber,
			&it.Title, &airDate, &it.FileID, &it.Monitored); err != nil {
			return nil, errors.Wrap(err, "scanning missing episode row")
		}
		it.SeriesTitle = seriesTitle.String
		it.AirDateUTC = airDate.Time
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Reader) missingMoviesInYear(ctx context.Context, year int) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT Id, Title, Year, TmdbId, Monitored, MovieFileId
		FROM Movies
		WHERE MovieFileId = 0 AND Year = ?
		ORDER BY Title ASC`, year)
	if err != nil {
		return nil, errors.Wrapf(err, "querying missing movies for year %d", year)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.EntryID, &it.Title, &it.Year, &it.TmdbID, &it.Monitored, &it.FileID); err != nil {
			return nil, errors.Wrap(err, "scanning missing movie row")
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ActiveSearchCommandCount counts in-flight *Search commands (§4.2
// arr_db_query_commands_count), the global in-flight cap input.
func (r *Reader) ActiveSearchCommandCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM Commands
		WHERE EndedAt IS NULL AND Name LIKE '%Search'`).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "counting active search commands")
	}
	return count, nil
}
