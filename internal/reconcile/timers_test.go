// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimerDisabledNeverFires(t *testing.T) {
	tm := newTimer(0)
	require.False(t, tm.Due(time.Now()))
	require.False(t, tm.Due(time.Now().Add(time.Hour)))
}

func TestTimerFiresImmediatelyOnFirstTick(t *testing.T) {
	tm := newTimer(5)
	require.True(t, tm.Due(time.Now()))
}

func TestTimerRespectsInterval(t *testing.T) {
	tm := newTimer(5)
	now := time.Now()
	require.True(t, tm.Due(now))
	require.False(t, tm.Due(now.Add(time.Minute)))
	require.True(t, tm.Due(now.Add(6*time.Minute)))
}
