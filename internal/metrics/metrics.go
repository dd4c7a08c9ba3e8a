// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is separate from the global default so tests can build their own
// collectors without duplicate registration panics.
var Registry = prometheus.NewRegistry()

var (
	VectorStoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "handbookqa_vectorstore_operation_duration_seconds",
			Help:    "Duration of vector store operations by backend, operation and result",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"backend", "op", "result"},
	)

	VectorStoreRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handbookqa_vectorstore_retries_total",
			Help: "Retried vector store attempts by operation",
		},
		[]string{"op"},
	)

	DocumentOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handbookqa_document_operations_total",
			Help: "Document lifecycle operations by operation and result",
		},
		[]string{"op", "result"},
	)

	QuestionsAnswered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handbookqa_questions_total",
			Help: "Answered questions by result",
		},
		[]string{"result"},
	)

	FAQsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "handbookqa_faqs_generated_total",
			Help: "FAQ questions generated from handbooks",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		VectorStoreDuration,
		VectorStoreRetries,
		DocumentOperations,
		QuestionsAnswered,
		FAQsGenerated,
	)
}

// returns "ok" or "error", the result label used across collectors
func Result(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
