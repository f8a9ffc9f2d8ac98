// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package searchstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// IsQueued reports whether entryID already has an incomplete pending-search
// row.
func (s *Store) IsQueued(ctx context.Context, entryID int) (bool, error) {
	var completed bool
	err := s.db.QueryRowContext(ctx,
		`SELECT completed FROM pending_search WHERE entry_id = ?`, entryID).Scan(&completed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "reading pending search row for %d", entryID)
	}
	return !completed, nil
}

// Enqueue records that a search has been issued for entryID (maybe_do_search
// step 3). maybeDoSearch calls it just before posting the manager's search
// command.
func (s *Store) Enqueue(ctx context.Context, entryID int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_search (entry_id, completed) VALUES (?, 0)
		ON CONFLICT(entry_id) DO UPDATE SET completed = 0`, entryID)
	if err != nil {
		return errors.Wrapf(err, "enqueueing pending search for %d", entryID)
	}
	return nil
}

// ActivePending counts incomplete pending-search rows. Only the tests call
// it; the scheduler does not.
func (s *Store) ActivePending(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pending_search WHERE completed = 0`).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "counting active pending searches")
	}
	return count, nil
}
