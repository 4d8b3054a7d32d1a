package operations

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for pipeline execution
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration prometheus.Histogram
	StepDuration      *prometheus.HistogramVec
	RowsIngested      prometheus.Counter
	ActiveOperations  prometheus.Gauge
}

// NewMetrics registers the pipeline metrics on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "housingml",
			Subsystem: "pipeline",
			Name:      "operations_total",
			Help:      "Pipeline runs by final status.",
		}, []string{"status"}),

		OperationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "housingml",
			Subsystem: "pipeline",
			Name:      "operation_duration_seconds",
			Help:      "End to end pipeline run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),

		StepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "housingml",
			Subsystem: "pipeline",
			Name:      "step_duration_seconds",
			Help:      "Per step execution duration.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"step", "status"}),

		RowsIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "housingml",
			Subsystem: "pipeline",
			Name:      "rows_ingested_total",
			Help:      "Rows loaded from input archives.",
		}),

		ActiveOperations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "housingml",
			Subsystem: "pipeline",
			Name:      "active_operations",
			Help:      "Pipeline runs currently executing.",
		}),
	}
}
