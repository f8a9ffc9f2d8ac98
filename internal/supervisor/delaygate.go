// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package supervisor

import (
	"sync/atomic"
	"time"
)

// delayGate is the process-wide no-internet flag shared by every
// Reconciler (§12 item 5). A signal self-expires after ttl so the
// reconciler that raised it keeps re-probing on its own cadence instead of
// latching the gate open forever.
type delayGate struct {
	until atomic.Int64
	ttl   time.Duration
}

func newDelayGate(ttl time.Duration) *delayGate {
	return &delayGate{ttl: ttl}
}

func (g *delayGate) ShouldDelay() bool {
	until := g.until.Load()
	return until != 0 && time.Now().UnixNano() < until
}

func (g *delayGate) SignalNoInternet() {
	g.until.Store(time.Now().Add(g.ttl).UnixNano())
}

func (g *delayGate) ClearNoInternet() {
	g.until.Store(0)
}
