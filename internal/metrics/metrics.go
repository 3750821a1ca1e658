// Package metrics exposes Prometheus instrumentation for the analysis pipeline
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clauseguard"

// Metrics holds the pipeline's Prometheus collectors
type Metrics struct {
	// AnalysesTotal counts completed analysis requests by outcome
	AnalysesTotal *prometheus.CounterVec
	// AnalysisDuration observes end-to-end analysis latency in seconds
	AnalysisDuration prometheus.Histogram
	// ClassificationFailures counts chunk classification calls that failed
	// and were skipped
	ClassificationFailures prometheus.Counter
	// SummarizationFailures counts summarization calls that fell back to the
	// generic summary
	SummarizationFailures prometheus.Counter
	// RiskScores observes the distribution of computed risk scores
	RiskScores prometheus.Histogram
}

// New registers the pipeline collectors with the given registerer
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analysis requests by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis latency in seconds.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
		}),
		ClassificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_failures_total",
			Help:      "Chunk classification calls that failed and were skipped.",
		}),
		SummarizationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summarization_failures_total",
			Help:      "Summarization calls that fell back to the generic summary.",
		}),
		RiskScores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_score",
			Help:      "Distribution of computed risk scores.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
	}
}
