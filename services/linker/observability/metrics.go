// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability holds the service's Prometheus metrics. All
// metrics are registered on the default registry via promauto and
// exposed on /metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "photopath"

var (
	oracleRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_requests_total",
		Help:      "Chain proposals requested from the language model, by backend and outcome.",
	}, []string{"backend", "outcome"})

	oracleFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_fallbacks_total",
		Help:      "Requests served from the canned fallback chain.",
	})

	qidCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "qid_corrections_total",
		Help:      "Node identifiers rewritten after failing validation.",
	})

	edgesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edges_dropped_total",
		Help:      "Claimed meetings removed from chains, by reason.",
	}, []string{"reason"})

	photoLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_lookups_total",
		Help:      "Image resolution attempts, by provider and result.",
	}, []string{"provider", "result"})

	linkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "link_duration_seconds",
		Help:      "End-to-end latency of /v1/link requests.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
	})
)

// OracleRequest records one chain proposal attempt.
// outcome is "ok", "error" or "malformed".
func OracleRequest(backend, outcome string) {
	oracleRequests.WithLabelValues(backend, outcome).Inc()
}

// OracleFallback records a request answered by the canned chain.
func OracleFallback() { oracleFallbacks.Inc() }

// QIDCorrection records one corrected node identifier.
func QIDCorrection() { qidCorrections.Inc() }

// EdgeDropped records a removed meeting claim.
// reason is "impossible_date" or "unreferenced_node".
func EdgeDropped(reason string) {
	edgesDropped.WithLabelValues(reason).Inc()
}

// PhotoLookup records one image resolution attempt.
// provider is "wikipedia", "wikidata", "commons" or "google"; result is
// "hit" or "miss".
func PhotoLookup(provider, result string) {
	photoLookups.WithLabelValues(provider, result).Inc()
}

// ObserveLinkDuration records the latency of one link request.
func ObserveLinkDuration(d time.Duration) {
	linkDuration.Observe(d.Seconds())
}
