// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package qbtclient is the Download-Client Facade: typed operations on the
// BitTorrent client used by the Reconciler, wrapping a qBittorrent WebAPI
// client.
package qbtclient

import (
	"context"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	qbt "github.com/autobrr/go-qbittorrent"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// filteredWriter suppresses qBittorrent's spurious "Unsolicited response
// received on idle HTTP channel" stderr noise, which the go-qbittorrent
// client does not expose a way to silence directly.
type filteredWriter struct {
	writer io.Writer
}

func (fw *filteredWriter) Write(p []byte) (int, error) {
	if strings.Contains(string(p), "Unsolicited response received on idle HTTP channel") {
		return len(p), nil
	}
	return fw.writer.Write(p)
}

func init() {
	stdlog.SetOutput(&filteredWriter{writer: os.Stderr})
}

// Client wraps the qbt.Client with health tracking and version gating,
// mirroring the underlying qBittorrent client's connection lifecycle.
type Client struct {
	*qbt.Client

	webAPIVersion string

	mu              sync.RWMutex
	lastHealthCheck time.Time
	isHealthy       bool
}

// New connects and authenticates to a qBittorrent instance.
func New(ctx context.Context, host, username, password string) (*Client, error) {
	qbtClient := qbt.NewClient(qbt.Config{
		Host:     host,
		Username: username,
		Password: password,
		Timeout:  30,
	})

	loginCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := qbtClient.LoginCtx(loginCtx); err != nil {
		return nil, errors.Wrapf(err, "connecting to qbittorrent at %s", host)
	}

	webAPIVersion, err := qbtClient.GetWebAPIVersionCtx(loginCtx)
	if err != nil {
		webAPIVersion = ""
	}

	c := &Client{
		Client:          qbtClient,
		webAPIVersion:   webAPIVersion,
		lastHealthCheck: time.Now(),
		isHealthy:       true,
	}

	log.Debug().Str("host", host).Str("webAPIVersion", webAPIVersion).Msg("qbtclient: connected")

	return c, nil
}

func (c *Client) WebAPIVersion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.webAPIVersion
}

// SupportsWebAPI reports whether the connected instance's WebAPI version is
// at least minVersion, a semver feature-gate for optional API behavior.
func (c *Client) SupportsWebAPI(minVersion string) bool {
	c.mu.RLock()
	v := c.webAPIVersion
	c.mu.RUnlock()
	if v == "" {
		return false
	}
	current, err := semver.NewVersion(v)
	if err != nil {
		return false
	}
	return !current.LessThan(semver.MustParse(minVersion))
}

func (c *Client) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isHealthy
}

func (c *Client) LastHealthCheck() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastHealthCheck
}

// HealthCheck re-authenticates if the session has expired and records the
// outcome: a login-then-retry health probe.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.GetWebAPIVersionCtx(ctx); err != nil {
		if loginErr := c.LoginCtx(ctx); loginErr != nil {
			c.setHealth(false)
			return errors.Wrap(loginErr, "health check: login failed")
		}
		if _, err := c.GetWebAPIVersionCtx(ctx); err != nil {
			c.setHealth(false)
			return errors.Wrap(err, "health check: api call failed")
		}
	}
	c.setHealth(true)
	return nil
}

func (c *Client) setHealth(healthy bool) {
	c.mu.Lock()
	c.isHealthy = healthy
	c.lastHealthCheck = time.Now()
	c.mu.Unlock()
}
