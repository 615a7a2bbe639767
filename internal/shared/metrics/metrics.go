package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voc_analyses_total",
			Help: "Total analyses completed, by the tier that produced the answer",
		},
		[]string{"method", "outcome"},
	)

	fallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voc_fallback_transitions_total",
			Help: "Fallback transitions between analysis tiers",
		},
		[]string{"from", "to", "reason"},
	)

	parseFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voc_llm_parse_failures_total",
			Help: "LLM responses that could not be parsed",
		},
		[]string{"kind"},
	)

	analysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voc_analysis_duration_seconds",
			Help:    "End-to-end analysis duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"method"},
	)

	retrievalDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voc_retrieval_duration_seconds",
			Help:    "Retrieval gateway search duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)

	poolRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voc_retrieval_pool_rejected_total",
			Help: "Searches rejected because the retrieval pool was exhausted",
		},
	)

	seededDocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voc_seeded_documents_total",
			Help: "Log documents written to the vector store",
		},
		[]string{"source", "status"},
	)

	learnJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voc_learn_jobs_total",
			Help: "Progressive learning jobs handled by the worker",
		},
		[]string{"status"},
	)
)

// IncAnalysis counts a finished analysis.
func IncAnalysis(method, outcome string) {
	analysesTotal.WithLabelValues(method, outcome).Inc()
}

// IncFallback counts a transition from one tier to the next.
func IncFallback(from, to, reason string) {
	fallbacksTotal.WithLabelValues(from, to, reason).Inc()
}

// IncParseFailure counts an unparseable LLM response.
func IncParseFailure(kind string) {
	parseFailuresTotal.WithLabelValues(kind).Inc()
}

// ObserveAnalysisSeconds records an analysis duration.
func ObserveAnalysisSeconds(method string, seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	analysisDuration.WithLabelValues(method).Observe(seconds)
}

// ObserveRetrievalSeconds records a search duration.
func ObserveRetrievalSeconds(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	retrievalDuration.Observe(seconds)
}

// IncPoolRejected counts a search rejected by the retrieval pool.
func IncPoolRejected() {
	poolRejectedTotal.Inc()
}

// AddSeededDocuments counts documents written (or failed) by a seeding run.
func AddSeededDocuments(source, status string, n int) {
	if n <= 0 {
		return
	}
	seededDocumentsTotal.WithLabelValues(source, status).Add(float64(n))
}

// IncLearnJob counts a learning job by outcome.
func IncLearnJob(status string) {
	learnJobsTotal.WithLabelValues(status).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
