// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package metrics defines the Prometheus instrumentation for Auricle.
// All collectors register on the default registry via promauto and are
// exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by route, method, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auricle",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed.",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration observes request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "auricle",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// RecommendDuration observes recommendation computation latency.
	RecommendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "auricle",
		Subsystem: "recommend",
		Name:      "duration_seconds",
		Help:      "Time to score and rank the catalog for one user.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	})

	// RecommendRequestsTotal counts recommendation computations.
	RecommendRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auricle",
		Subsystem: "recommend",
		Name:      "requests_total",
		Help:      "Total recommendation computations.",
	})

	// ImportRunsTotal counts catalog import runs by outcome.
	ImportRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "auricle",
		Subsystem: "ingest",
		Name:      "runs_total",
		Help:      "Catalog import runs.",
	}, []string{"outcome"})

	// ImportedEpisodesTotal counts episodes added by the importer.
	ImportedEpisodesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auricle",
		Subsystem: "ingest",
		Name:      "episodes_total",
		Help:      "Episodes added to the catalog by imports.",
	})

	// EmbeddingsBuiltTotal counts vectors written by the builder.
	EmbeddingsBuiltTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "auricle",
		Subsystem: "embeddings",
		Name:      "built_total",
		Help:      "Embedding vectors computed and stored.",
	})

	// CatalogEpisodes tracks the current catalog size.
	CatalogEpisodes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "auricle",
		Subsystem: "catalog",
		Name:      "episodes",
		Help:      "Episodes currently in the catalog.",
	})
)
