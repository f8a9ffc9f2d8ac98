// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"context"
	"errors"
	"net/http"
)

// ErrNoInternet and ErrManagerUnreachable are the two transient conditions
// Tick can surface; the supervisor sleeps for NoInternetSleepTimer on
// either, or 300s after repeated consecutive transient ticks, rather than
// treating them as fatal.
var (
	ErrNoInternet         = errors.New("reconcile: no internet connectivity")
	ErrManagerUnreachable = errors.New("reconcile: manager unreachable")
)

// probeHosts is a small set of well-known, highly-available hosts probed
// with HEAD to determine whether outbound connectivity exists.
var probeHosts = []string{
	"https://1.1.1.1",
	"https://8.8.8.8",
	"https://cloudflare.com",
}

// hasInternet performs a best-effort outbound connectivity check (§12 item
// 4), distinct from the manager-reachability probe.
func hasInternet(ctx context.Context, client *http.Client) bool {
	for _, host := range probeHosts {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, host, nil)
		if err != nil {
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		return true
	}
	return false
}
