package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Work metrics
	WorksCreated prometheus.Counter
	WorksUpdated prometheus.Counter
	WorksDeleted prometheus.Counter
	WorkAmount   prometheus.Histogram
	WorkErrors   *prometheus.CounterVec

	// Ledger metrics
	BalanceAdjustments        prometheus.Counter
	ReconciliationRuns        prometheus.Counter
	ReconciliationCorrections prometheus.Counter
	HistoryEntriesWritten     prometheus.Counter

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Work metrics
		WorksCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_works_created_total",
			Help: "Total number of work transactions created",
		}),
		WorksUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_works_updated_total",
			Help: "Total number of work transactions updated",
		}),
		WorksDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_works_deleted_total",
			Help: "Total number of work transactions deleted",
		}),
		WorkAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "khata_work_amount",
			Help:    "Work transaction total prices in minor units",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		}),
		WorkErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_work_errors_total",
				Help: "Total number of work operation errors by type",
			},
			[]string{"error_type"},
		),

		// Ledger metrics
		BalanceAdjustments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_balance_adjustments_total",
			Help: "Total number of manual balance adjustments",
		}),
		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_reconciliation_runs_total",
			Help: "Total number of balance reconciliation runs",
		}),
		ReconciliationCorrections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_reconciliation_corrections_total",
			Help: "Total number of drifted balances corrected",
		}),
		HistoryEntriesWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_history_entries_written_total",
			Help: "Total number of balance history entries written",
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "khata_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "khata_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
