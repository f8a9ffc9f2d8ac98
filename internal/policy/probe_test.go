// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package policy

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProbeableWithoutToolTreatsEverythingAsProbeable(t *testing.T) {
	p := &MediaProbe{available: false, probed: make(map[string]bool)}
	require.True(t, p.Probeable("/does/not/exist.mkv"))
}

func TestProbeableDirectoryNeverProbeable(t *testing.T) {
	p := &MediaProbe{available: true, probed: make(map[string]bool)}
	require.False(t, p.Probeable(t.TempDir()))
}

func TestProbeableMemoizesResult(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.mkv")

	p := &MediaProbe{available: true, probed: make(map[string]bool)}
	first := p.Probeable(missing)
	_, seen := p.probed[missing]
	require.True(t, seen)
	require.Equal(t, first, p.Probeable(missing))
}
