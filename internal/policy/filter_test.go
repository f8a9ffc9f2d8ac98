// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autobrr/qbitrr/internal/domain"
	"github.com/autobrr/qbitrr/internal/qbtclient"
)

func TestClassifyDeprioritizesDisallowedAndSampleFiles(t *testing.T) {
	cfg := &domain.ManagerConfig{
		FileExtensionAllowlist: []string{".mkv"},
		FolderExclusionRegex:   []string{"sample"},
	}
	f, err := New(cfg)
	require.NoError(t, err)

	files := []qbtclient.FileEntry{
		{ID: 0, Name: "Show/Sample/clip.mkv", Priority: 1},
		{ID: 1, Name: "Show/movie.mkv", Priority: 1},
		{ID: 2, Name: "Show/notes.txt", Priority: 1},
	}

	deprioritize, remaining := f.Classify(files)
	require.ElementsMatch(t, []int{0, 2}, deprioritize)
	require.Equal(t, 1, remaining)
}

func TestClassifyIgnoresAlreadyDeprioritizedFiles(t *testing.T) {
	cfg := &domain.ManagerConfig{FileExtensionAllowlist: []string{".mkv"}}
	f, err := New(cfg)
	require.NoError(t, err)

	files := []qbtclient.FileEntry{
		{ID: 0, Name: "notes.txt", Priority: 0},
		{ID: 1, Name: "movie.mkv", Priority: 1},
	}

	deprioritize, remaining := f.Classify(files)
	require.Empty(t, deprioritize)
	require.Equal(t, 2, remaining)
}

func TestCaseSensitiveMatches(t *testing.T) {
	sensitive := &domain.ManagerConfig{CaseSensitiveMatches: true, FileNameExclusionRegex: []string{"^SAMPLE"}}
	f, err := New(sensitive)
	require.NoError(t, err)
	require.False(t, f.matchesFileName("sample.mkv"))
	require.True(t, f.matchesFileName("SAMPLE.mkv"))

	insensitive := &domain.ManagerConfig{FileNameExclusionRegex: []string{"^SAMPLE"}}
	f2, err := New(insensitive)
	require.NoError(t, err)
	require.True(t, f2.matchesFileName("sample.mkv"))
}

func TestAllowedExtension(t *testing.T) {
	f, err := New(&domain.ManagerConfig{FileExtensionAllowlist: []string{".mkv", ".mp4"}})
	require.NoError(t, err)
	require.True(t, f.AllowedExtension("movie.MKV"))
	require.False(t, f.AllowedExtension("movie.avi"))
}
