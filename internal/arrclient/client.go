// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package arrclient is the Manager Facade: typed HTTP operations against a
// Sonarr/Radarr-style media manager, shaped like a torznab-style indexer
// client but targeting the *arr `/api/v3` surface.
package arrclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/autobrr/qbitrr/internal/buildinfo"
	"github.com/autobrr/qbitrr/internal/domain"
)

// Config configures one Manager Facade client instance.
type Config struct {
	Host    string
	APIKey  string
	Variant domain.Variant

	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is a thin, typed wrapper over a manager's HTTP API.
type Client struct {
	host       string
	apiKey     string
	variant    domain.Variant
	httpClient *http.Client
}

// HTTPStatusError carries the manager's HTTP status for status-code
// dispatch, the same shape as a torznab client's status switch.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("manager returned status %d: %s", e.StatusCode, e.Body)
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		host:       cfg.Host,
		apiKey:     cfg.APIKey,
		variant:    cfg.Variant,
		httpClient: httpClient,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("User-Agent", buildinfo.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "performing request")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNotFound:
		return &HTTPStatusError{StatusCode: resp.StatusCode, Body: "not found"}
	case http.StatusUnauthorized:
		return &HTTPStatusError{StatusCode: resp.StatusCode, Body: "unauthorized: check api key"}
	case http.StatusForbidden:
		return &HTTPStatusError{StatusCode: resp.StatusCode, Body: "forbidden"}
	default:
		return &HTTPStatusError{StatusCode: resp.StatusCode, Body: resp.Status}
	}
}

// IsAlive probes GET /api/v3/system/status with a short timeout, per §6.
func (c *Client) IsAlive(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	req, err := c.newRequest(probeCtx, http.MethodGet, "/api/v3/system/status", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// PostCommand posts a named command with arbitrary keyword arguments, per §6.
func (c *Client) PostCommand(ctx context.Context, name string, kwargs map[string]any) error {
	body := map[string]any{"name": name}
	for k, v := range kwargs {
		body[k] = v
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v3/command", body)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DeleteQueueEntry removes a queue row, optionally blocklisting it.
func (c *Client) DeleteQueueEntry(ctx context.Context, queueID int, removeFromClient, blocklist bool) error {
	path := fmt.Sprintf("/api/v3/queue/%d?removeFromClient=%t&blocklist=%t", queueID, removeFromClient, blocklist)
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
