// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package searchstore is the Search State Store: a per-manager local
// SQLite database holding search bookkeeping, using the same
// connection-pragma conventions as the rest of this module's SQLite stores
// but scaled down to a single-writer access pattern — only the scheduler
// worker writes.
package searchstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/autobrr/qbitrr/internal/domain"
)

const connectionSetupTimeout = 5 * time.Second

// Store is the local search-state database for one manager.
type Store struct {
	db      *sql.DB
	variant domain.Variant
}

// Open creates (if necessary) and migrates the local store at path, applying
// WAL journal mode, synchronous=OFF, a 64MB page cache, and foreign keys
// enabled.
func Open(path string, variant domain.Variant) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating search store directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening search store %s", path)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), connectionSetupTimeout)
	defer cancel()

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = OFF",
		"PRAGMA cache_size = -64000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "apply pragma %q", p)
		}
	}

	s := &Store{db: db, variant: variant}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS files (
			entry_id     INTEGER PRIMARY KEY,
			series_id    INTEGER NOT NULL DEFAULT 0,
			series_title TEXT NOT NULL DEFAULT '',
			season_number INTEGER NOT NULL DEFAULT 0,
			episode_number INTEGER NOT NULL DEFAULT 0,
			title        TEXT NOT NULL DEFAULT '',
			air_date_utc DATETIME,
			year         INTEGER NOT NULL DEFAULT 0,
			tmdb_id      INTEGER NOT NULL DEFAULT 0,
			file_id      INTEGER NOT NULL DEFAULT 0,
			monitored    BOOLEAN NOT NULL DEFAULT 0,
			searched     BOOLEAN NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS pending_search (
			entry_id  INTEGER PRIMARY KEY REFERENCES files(entry_id),
			completed BOOLEAN NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return errors.Wrap(err, "migrating search store")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
