// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package buildinfo exposes version metadata injected at link time via
// -ldflags, along with a derived HTTP User-Agent string.
package buildinfo

import (
	"encoding/json"
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// UserAgent is sent on every outbound manager HTTP request.
var UserAgent string

func init() {
	UserAgent = fmt.Sprintf("qbitrr/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}

// String renders a human-readable summary for the `version` CLI command.
func String() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild date: %s\nGo: %s\nOS/Arch: %s/%s",
		Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// JSON renders the same information as a JSON object for machine consumers.
func JSON() ([]byte, error) {
	return json.Marshal(struct {
		Version string `json:"version"`
		Commit  string `json:"commit"`
		Date    string `json:"date"`
	}{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	})
}
