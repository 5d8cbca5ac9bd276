// Package metrics records Prometheus counters for store synchronization and
// credential vault activity.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Synchronizer metrics
	syncFlushTotal  *prometheus.CounterVec
	syncReloadTotal *prometheus.CounterVec
	syncErrorTotal  prometheus.Counter

	// Credential vault metrics
	vaultFallbackTotal   prometheus.Counter
	vaultWriteErrorTotal prometheus.Counter

	// Registration guard
	metricsOnce sync.Once
)

// Init initializes all Prometheus metrics. Called lazily on first use so
// that library consumers without a metrics endpoint pay nothing beyond the
// registration.
func Init() {
	metricsOnce.Do(func() {
		syncFlushTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iscsiconf_sync_flush_total",
				Help: "Total number of dirty trees flushed to the property store",
			},
			[]string{"tree"},
		)

		syncReloadTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iscsiconf_sync_reload_total",
				Help: "Total number of clean trees reloaded from the property store",
			},
			[]string{"tree"},
		)

		syncErrorTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "iscsiconf_sync_error_total",
				Help: "Total number of failed synchronize calls",
			},
		)

		vaultFallbackTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "iscsiconf_vault_fallback_total",
				Help: "Total number of CHAP lookups that degraded to no authentication",
			},
		)

		vaultWriteErrorTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "iscsiconf_vault_write_error_total",
				Help: "Total number of failed credential vault writes",
			},
		)
	})
}

// RecordSyncFlush counts a dirty tree written to the property store.
func RecordSyncFlush(tree string) {
	Init()
	syncFlushTotal.WithLabelValues(tree).Inc()
}

// RecordSyncReload counts a clean tree refreshed from the property store.
func RecordSyncReload(tree string) {
	Init()
	syncReloadTotal.WithLabelValues(tree).Inc()
}

// RecordSyncError counts a failed synchronize call.
func RecordSyncError() {
	Init()
	syncErrorTotal.Inc()
}

// RecordVaultFallback counts a CHAP secret lookup that fell back to the
// no-authentication default.
func RecordVaultFallback() {
	Init()
	vaultFallbackTotal.Inc()
}

// RecordVaultWriteError counts a failed credential vault write.
func RecordVaultWriteError() {
	Init()
	vaultWriteErrorTotal.Inc()
}
