// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/qbitrr/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewDiscoversManagerSections(t *testing.T) {
	path := writeConfig(t, `
[settings]
appDataFolder = "/data"

[sonarr]
uri = "http://localhost:8989"
apiKey = "abc"

[radarr-4k]
uri = "http://localhost:7878"
apiKey = "def"

[not-a-manager]
foo = "bar"
`)

	cfg, err := New(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Managers, 2)
	require.Contains(t, cfg.Managers, "sonarr")
	require.Contains(t, cfg.Managers, "radarr-4k")

	assert.Equal(t, domain.VariantSonarr, cfg.Managers["sonarr"].Variant)
	assert.Equal(t, "sonarr", cfg.Managers["sonarr"].Category)
	assert.Equal(t, domain.VariantRadarr, cfg.Managers["radarr-4k"].Variant)
}

func TestNewAppliesManagerDefaults(t *testing.T) {
	path := writeConfig(t, `
[sonarr]
uri = "http://localhost:8989"
apiKey = "abc"
`)

	cfg, err := New(path)
	require.NoError(t, err)

	mc := cfg.Managers["sonarr"]
	assert.Equal(t, "Move", mc.ImportMode)
	assert.Equal(t, 600, mc.IgnoreTorrentsYoungerThan)
	assert.Equal(t, 86400, mc.MaximumETA)
	assert.Equal(t, 5, mc.SearchLimit)
}

func TestNewRejectsDuplicateURI(t *testing.T) {
	path := writeConfig(t, `
[sonarr]
uri = "http://localhost:8989"
apiKey = "abc"

[sonarr-2]
uri = "http://localhost:8989"
apiKey = "def"
`)

	_, err := New(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate uri")
}

func TestNewSkipsUnmanagedSectionsInValidation(t *testing.T) {
	path := writeConfig(t, `
[sonarr]
managed = false
`)

	_, err := New(path)
	require.NoError(t, err)
}

func TestNewEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, `
[settings]
appDataFolder = "/data"
logLevel = "INFO"
`)

	t.Setenv("QBITRR__LOG_LEVEL", "DEBUG")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.Settings.LogLevel)
}
