// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: MIT

// Package metrics exposes a Prometheus registry fed by a custom Collector
// that reads counters maintained by the reconciler and search-scheduler
// loops, one Collector per subsystem rather than a global registry of
// loose metric variables.
package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// ManagerCounters accumulates intent and search counts for one manager
// group. Reconciler and Scheduler hold a pointer to their own instance and
// increment it directly; Collect() reads it atomically.
type ManagerCounters struct {
	Group string

	Paused         atomic.Int64
	Resumed        atomic.Int64
	Rechecked      atomic.Int64
	Deleted        atomic.Int64
	SkipBlacklisted atomic.Int64
	PriorityChanged atomic.Int64

	SearchesPosted  atomic.Int64
	SearchesSkipped atomic.Int64
	CurrentYear     atomic.Int64
}

// ReconcileCollector implements prometheus.Collector over a dynamic set of
// per-manager counters, registered once and populated as managers start.
type ReconcileCollector struct {
	mu       sync.RWMutex
	counters map[string]*ManagerCounters

	intentDesc      *prometheus.Desc
	searchDesc      *prometheus.Desc
	currentYearDesc *prometheus.Desc
}

func NewReconcileCollector() *ReconcileCollector {
	return &ReconcileCollector{
		counters: make(map[string]*ManagerCounters),
		intentDesc: prometheus.NewDesc(
			"qbitrr_intents_total",
			"Total intents flushed by kind, per manager group",
			[]string{"manager", "kind"},
			nil,
		),
		searchDesc: prometheus.NewDesc(
			"qbitrr_searches_total",
			"Total search commands posted or skipped, per manager group",
			[]string{"manager", "result"},
			nil,
		),
		currentYearDesc: prometheus.NewDesc(
			"qbitrr_search_current_year",
			"Current year window of the search scheduler, per manager group",
			[]string{"manager"},
			nil,
		),
	}
}

// Register returns (creating if necessary) the counters for a manager group.
func (c *ReconcileCollector) Register(group string) *ManagerCounters {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mc, ok := c.counters[group]; ok {
		return mc
	}
	mc := &ManagerCounters{Group: group}
	c.counters[group] = mc
	return mc
}

func (c *ReconcileCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.intentDesc
	ch <- c.searchDesc
	ch <- c.currentYearDesc
}

func (c *ReconcileCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, mc := range c.counters {
		emit := func(kind string, v int64) {
			ch <- prometheus.MustNewConstMetric(c.intentDesc, prometheus.CounterValue, float64(v), mc.Group, kind)
		}
		emit("pause", mc.Paused.Load())
		emit("resume", mc.Resumed.Load())
		emit("recheck", mc.Rechecked.Load())
		emit("delete", mc.Deleted.Load())
		emit("skip_blacklist", mc.SkipBlacklisted.Load())
		emit("priority_change", mc.PriorityChanged.Load())

		ch <- prometheus.MustNewConstMetric(c.searchDesc, prometheus.CounterValue, float64(mc.SearchesPosted.Load()), mc.Group, "posted")
		ch <- prometheus.MustNewConstMetric(c.searchDesc, prometheus.CounterValue, float64(mc.SearchesSkipped.Load()), mc.Group, "skipped")

		ch <- prometheus.MustNewConstMetric(c.currentYearDesc, prometheus.GaugeValue, float64(mc.CurrentYear.Load()), mc.Group)
	}
}
