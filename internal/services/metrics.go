// Package services – Prometheus domain metrics.
//
// This file exposes counters for the duplicate-detection pipeline, kept
// deliberately low-cardinality (severity and decision enums only) so they
// stay cheap to scrape and easy to aggregate in dashboards.
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// checksTotal counts duplicate checks by outcome ("clean" or "warning").
	checksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duplicate_checks_total",
			Help: "Total number of duplicate checks run.",
		},
		[]string{"outcome"},
	)

	// warningsTotal counts persisted warnings by overall severity.
	warningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duplicate_warnings_total",
			Help: "Total number of duplicate warnings raised.",
		},
		[]string{"severity"},
	)

	// decisionsTotal counts recorded decisions by their value.
	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duplicate_decisions_total",
			Help: "Total number of warning decisions recorded.",
		},
		[]string{"decision"},
	)
)

func init() {
	prometheus.MustRegister(checksTotal, warningsTotal, decisionsTotal)
}
