// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package supervisor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDelayGateSignalAndExpire(t *testing.T) {
	g := newDelayGate(20 * time.Millisecond)
	require.False(t, g.ShouldDelay())

	g.SignalNoInternet()
	require.True(t, g.ShouldDelay())

	time.Sleep(50 * time.Millisecond)
	require.False(t, g.ShouldDelay())
}

func TestDelayGateClear(t *testing.T) {
	g := newDelayGate(time.Hour)
	g.SignalNoInternet()
	require.True(t, g.ShouldDelay())

	g.ClearNoInternet()
	require.False(t, g.ShouldDelay())
}
