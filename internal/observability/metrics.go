package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "impact_service"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// simulation API and the streaming assessment pipeline.
type Metrics struct {
	// Calculator metrics.
	Simulations      *prometheus.CounterVec // labels: ocean={true,false}
	ValidationErrors *prometheus.CounterVec // labels: operation={impact,mitigation}
	Mitigations      *prometheus.CounterVec // labels: strategy

	// History store metrics.
	StoreOperations *prometheus.CounterVec // labels: op={save,get,list}, outcome={success,error,not_found}

	// Pipeline metrics.
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// NeoWs feed metrics.
	NeoWsRequests    *prometheus.CounterVec // labels: outcome={success,error,not_found}
	NeoWsCache       *prometheus.CounterVec // labels: result={hit,miss}
	NeoWsAPIDuration prometheus.Histogram
	NeoWsEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.NeoWsAPIDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "neows_api_duration_seconds",
		Help:      "NASA NeoWs API request duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	prometheus.MustRegister(
		m.Simulations,
		m.ValidationErrors,
		m.Mitigations,
		m.StoreOperations,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.NeoWsRequests,
		m.NeoWsCache,
		m.NeoWsAPIDuration,
		m.NeoWsEnabled,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	m.NeoWsAPIDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "neows_api_duration_seconds"})
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		Simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Impact calculations by ocean classification.",
		}, []string{"ocean"}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Rejected calculator inputs by operation.",
		}, []string{"operation"}),
		Mitigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mitigations_total",
			Help:      "Mitigation evaluations by strategy.",
		}, []string{"strategy"}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Simulation history store operations by op and outcome.",
		}, []string{"op", "outcome"}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total scenario messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total assessment messages written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total scenarios that could not be assessed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-assess-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		NeoWsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "neows_requests_total",
			Help:      "NASA NeoWs lookups by outcome.",
		}, []string{"outcome"}),
		NeoWsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "neows_cache_total",
			Help:      "NeoWs cache lookups by result.",
		}, []string{"result"}),
		NeoWsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "neows_enabled",
			Help:      "1 when the NeoWs asteroid feed is enabled, 0 otherwise.",
		}),
	}
}
