// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/autobrr/qbitrr/internal/config"
	"github.com/autobrr/qbitrr/internal/logging"
	"github.com/autobrr/qbitrr/internal/metrics"
	"github.com/autobrr/qbitrr/internal/supervisor"
)

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.New(configPath)
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	logging.Configure(cfg.Settings)

	metricsMgr := metrics.NewManager()

	sup, err := supervisor.New(ctx, cfg, metricsMgr.Collector)
	if err != nil {
		return errors.Wrap(err, "starting supervisor")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sup.Run(ctx) })
	if cfg.Settings.MetricsEnabled {
		g.Go(func() error { return metricsMgr.Serve(ctx, cfg.Settings.MetricsHost, cfg.Settings.MetricsPort) })
	}
	g.Go(func() error {
		config.WatchForChanges(ctx, configPath, logging.Scoped("config"))
		return nil
	})

	err = g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
