// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package arrclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/qbitrr/internal/domain"
)

func TestIsAlive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL, APIKey: "test-key"})
	assert.True(t, c.IsAlive(t.Context()))
}

func TestIsAliveUnreachable(t *testing.T) {
	c := NewClient(Config{Host: "http://127.0.0.1:1", APIKey: "test-key"})
	assert.False(t, c.IsAlive(t.Context()))
}

func TestPostCommand(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL, APIKey: "test-key"})
	err := c.EpisodeSearch(t.Context(), []int{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, "EpisodeSearch", gotBody["name"])
}

func TestGetQueueSonarrAggregatesEpisodeIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "downloadId": "abc", "episodeId": 10},
			{"id": 1, "downloadId": "abc", "episodeId": 11},
			{"id": 2, "downloadId": "def", "episodeId": 20},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL, APIKey: "test-key", Variant: domain.VariantSonarr})
	records, err := c.GetQueue(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []int{10, 11}, records[0].EpisodeIDs)
	assert.Equal(t, []int{20}, records[1].EpisodeIDs)
}

func TestDeleteQueueEntryBuildsQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL, APIKey: "test-key"})
	require.NoError(t, c.DeleteQueueEntry(t.Context(), 5, true, false))

	assert.Contains(t, gotQuery, "removeFromClient=true")
	assert.Contains(t, gotQuery, "blocklist=false")
}
