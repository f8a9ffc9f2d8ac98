// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package supervisor

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/qbitrr/internal/domain"
	"github.com/autobrr/qbitrr/internal/metrics"
	"github.com/autobrr/qbitrr/internal/policy"
	"github.com/autobrr/qbitrr/internal/reconcile"
)

func newTestSupervisor(t *testing.T) *Supervisor {
	t.Helper()
	return &Supervisor{
		settings:  domain.DefaultSettings(),
		probe:     policy.NewMediaProbe(),
		shared:    reconcile.NewSharedCache(),
		registry:  reconcile.NewRegistry(),
		gate:      newDelayGate(60),
		collector: metrics.NewReconcileCollector(),
		log:       zerolog.Nop(),
	}
}

func TestAddManagerSkipsSchedulerWhenCatalogMissing(t *testing.T) {
	s := newTestSupervisor(t)
	s.settings.AppDataFolder = t.TempDir()

	mc := domain.DefaultManagerConfig()
	mc.URI = "http://localhost:8989"
	mc.Category = "tv-sonarr"
	mc.Variant = domain.VariantSonarr
	mc.SearchMissing = true
	mc.DatabaseFile = filepath.Join(t.TempDir(), "does-not-exist.db")

	require.NoError(t, s.addManager("sonarr", &mc))
	require.Len(t, s.managers, 1)
	require.Nil(t, s.managers[0].scheduler)

	owner, ok := s.registry.Lookup("tv-sonarr")
	require.True(t, ok)
	require.NotNil(t, owner)
}

func TestIsTransientClassifiesSentinels(t *testing.T) {
	require.True(t, isTransient(reconcile.ErrNoInternet))
	require.True(t, isTransient(reconcile.ErrManagerUnreachable))
	require.False(t, isTransient(nil))
}
