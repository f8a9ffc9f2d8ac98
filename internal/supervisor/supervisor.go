// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package supervisor is the process-wide Supervisor: it discovers configured
// managers, builds one Reconciler and (optionally) one Search Scheduler per
// manager plus two placeholder reconcilers, and launches them as
// independent, fail-isolated workers under one golang.org/x/sync/errgroup
// worker group. Each worker retries failing ticks in its own loop; a worker
// that returns is not restarted.
package supervisor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/autobrr/qbitrr/internal/arrclient"
	"github.com/autobrr/qbitrr/internal/domain"
	"github.com/autobrr/qbitrr/internal/logging"
	"github.com/autobrr/qbitrr/internal/metrics"
	"github.com/autobrr/qbitrr/internal/policy"
	"github.com/autobrr/qbitrr/internal/qbtclient"
	"github.com/autobrr/qbitrr/internal/reconcile"
	"github.com/autobrr/qbitrr/internal/searchsched"
)

// repeatedConnFailureThreshold is how many consecutive transient ticks
// escalate a reconciler's sleep to the 300s repeated client-connection
// failure suspension.
const repeatedConnFailureThreshold = 5

// managedManager is one real, non-placeholder manager's worker set.
type managedManager struct {
	name      string
	reconciler *reconcile.Reconciler
	scheduler  *searchsched.Scheduler
}

// Supervisor owns every worker for the process's lifetime.
type Supervisor struct {
	settings domain.SettingsConfig

	qbt    *qbtclient.Client
	probe  *policy.MediaProbe
	shared *reconcile.SharedCache
	registry *reconcile.Registry
	gate   *delayGate

	collector *metrics.ReconcileCollector

	managers     []*managedManager
	placeholders []*reconcile.Placeholder

	log zerolog.Logger
}

// New builds a Supervisor from a fully-resolved configuration. Managers with
// Managed=false are skipped silently; connecting to the download client
// happens once, here, and is shared by every reconciler.
func New(ctx context.Context, cfg *domain.Config, collector *metrics.ReconcileCollector) (*Supervisor, error) {
	qbtClient, err := qbtclient.New(ctx, cfg.Settings.QbitHost, cfg.Settings.QbitUsername, cfg.Settings.QbitPassword)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "connecting to download client")
	}

	s := &Supervisor{
		settings:  cfg.Settings,
		qbt:       qbtClient,
		probe:     policy.NewMediaProbe(),
		shared:    reconcile.NewSharedCache(),
		registry:  reconcile.NewRegistry(),
		gate:      newDelayGate(time.Duration(cfg.Settings.NoInternetSleepTimer) * time.Second),
		collector: collector,
		log:       logging.Scoped("supervisor"),
	}

	for name, mc := range cfg.Managers {
		if !mc.Managed {
			s.log.Info().Str("manager", name).Msg("supervisor: manager disabled, skipping")
			continue
		}
		if err := s.addManager(name, mc); err != nil {
			return nil, pkgerrors.Wrapf(err, "building manager [%s]", name)
		}
	}

	s.placeholders = []*reconcile.Placeholder{
		reconcile.NewPlaceholder(cfg.Settings.FailedCategory, false, qbtClient, s.shared, s.registry, logging.Scoped("placeholder-failed")),
		reconcile.NewPlaceholder(cfg.Settings.RecheckCategory, true, qbtClient, s.shared, s.registry, logging.Scoped("placeholder-recheck")),
	}

	return s, nil
}

func (s *Supervisor) addManager(name string, mc *domain.ManagerConfig) error {
	log := logging.Scoped(name)

	if s.settings.CompletedDownloadFolder != "" {
		completed := filepath.Join(s.settings.CompletedDownloadFolder, mc.Category)
		if _, statErr := os.Stat(completed); statErr != nil {
			return pkgerrors.Wrapf(statErr, "completed download folder %q for manager [%s]", completed, name)
		}
	}

	arrClient := arrclient.NewClient(arrclient.Config{
		Host:    mc.URI,
		APIKey:  mc.APIKey,
		Variant: mc.Variant,
	})

	filter, err := policy.New(mc)
	if err != nil {
		return pkgerrors.Wrap(err, "compiling filters")
	}

	counters := s.collector.Register(name)

	rec := reconcile.New(name, mc, s.settings, s.qbt, arrClient, filter, s.probe, s.shared, s.gate, counters, log)
	s.registry.Add(rec)

	mm := &managedManager{name: name, reconciler: rec}

	if mc.SearchMissing {
		if _, statErr := os.Stat(mc.DatabaseFile); statErr != nil {
			log.Warn().Str("path", mc.DatabaseFile).Msg("supervisor: catalog file missing, search worker not started")
		} else {
			storePath := filepath.Join(s.settings.AppDataFolder, name, "searchstate.db")
			mm.scheduler = searchsched.New(name, mc, mc.Variant, mc.DatabaseFile, storePath, arrClient, counters, log)
		}
	}

	s.managers = append(s.managers, mm)
	return nil
}

// Run starts every worker and blocks until ctx is cancelled. Workers never
// exit on their own error — a failing tick is logged and retried on the
// next scheduled wakeup — so the only way this returns is ctx cancellation.
func (s *Supervisor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, mm := range s.managers {
		mm := mm
		g.Go(func() error {
			return s.runReconciler(ctx, mm.name, mm.reconciler)
		})
		if mm.scheduler != nil {
			g.Go(func() error {
				return mm.scheduler.Run(ctx)
			})
		}
	}

	for _, ph := range s.placeholders {
		ph := ph
		g.Go(func() error {
			return s.runPlaceholder(ctx, ph)
		})
	}

	return g.Wait()
}

// runReconciler is the torrent-loop worker: tick, then sleep according to
// the outcome.
func (s *Supervisor) runReconciler(ctx context.Context, name string, rec *reconcile.Reconciler) error {
	log := logging.Scoped(name)
	consecutiveTransient := 0

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := rec.Tick(ctx)
		sleep := time.Duration(s.settings.LoopSleepTimer) * time.Second

		switch {
		case err == nil:
			consecutiveTransient = 0
		case isTransient(err):
			consecutiveTransient++
			log.Warn().Err(err).Msg("supervisor: transient condition")
			sleep = time.Duration(s.settings.NoInternetSleepTimer) * time.Second
			if consecutiveTransient >= repeatedConnFailureThreshold {
				sleep = 300 * time.Second
			}
		default:
			consecutiveTransient = 0
			log.Warn().Err(err).Msg("supervisor: reconciler tick failed")
		}

		if sleepCtx(ctx, sleep) {
			return ctx.Err()
		}
	}
}

func (s *Supervisor) runPlaceholder(ctx context.Context, ph *reconcile.Placeholder) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := ph.Tick(ctx); err != nil {
			s.log.Warn().Err(err).Msg("supervisor: placeholder tick failed")
		}
		if sleepCtx(ctx, time.Duration(s.settings.LoopSleepTimer)*time.Second) {
			return ctx.Err()
		}
	}
}

func isTransient(err error) bool {
	return errors.Is(err, reconcile.ErrNoInternet) || errors.Is(err, reconcile.ErrManagerUnreachable)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-t.C:
		return false
	}
}
