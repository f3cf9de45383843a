// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the trainconf config service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label cardinality is bounded: results are success/failure, ops are the
// fsnotify operation names, fields are the fixed configuration surface.
var (
	// ReloadTotal counts configuration reload attempts by result.
	ReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trainconf_config_reload_total",
		Help: "Total number of configuration reload attempts, by result (success/failure).",
	}, []string{"result"})

	// ValidationFailureTotal counts business validation failures by field path.
	ValidationFailureTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trainconf_config_validation_failures_total",
		Help: "Total number of configuration validation failures, by field path.",
	}, []string{"field"})

	// WatcherEventTotal counts config file watcher events by operation.
	WatcherEventTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trainconf_config_watcher_events_total",
		Help: "Total number of config file watcher events, by fsnotify operation.",
	}, []string{"op"})

	// RestartRequired indicates that the last applied reload changed fields
	// the running harness cannot pick up without a restart.
	RestartRequired = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trainconf_config_restart_required",
		Help: "1 when the last reload changed fields that require a harness restart.",
	})
)

// ObserveValidationError records every field named in a validation failure.
func ObserveValidationError(fields []string) {
	for _, f := range fields {
		ValidationFailureTotal.WithLabelValues(f).Inc()
	}
}
