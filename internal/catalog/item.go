// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package catalog is the Catalog Reader: read-only access to a media
// manager's own SQLite catalog, mirroring the db_update/db_get_files query
// shape and using the same modernc.org/sqlite connection conventions as the
// rest of this module's SQLite-backed stores.
package catalog

import "time"

// Item is the tagged-variant row read from the manager's catalog. Only the
// fields relevant to the populated Variant are meaningful.
type Item struct {
	EntryID int

	// Episode fields.
	SeriesID                   int
	SeriesTitle                string
	SeasonNumber               int
	EpisodeNumber              int
	AbsoluteEpisodeNumber      int
	SceneAbsoluteEpisodeNumber int
	AirDateUTC                 time.Time

	// Movie fields.
	Year   int
	TmdbID int

	// Shared.
	Title     string
	FileID    int
	Monitored bool
}

// Missing reports whether the manager has not yet acquired a file for this item.
func (i Item) Missing() bool {
	return i.FileID == 0
}
