// Package metrics registers the service's Prometheus collectors,
// grounded on the teacher's internal/metrics/prometheus.go layout.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Orchestrator node metrics
	NodeExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finassist_node_executions_total",
			Help: "Total number of orchestrator node executions",
		},
		[]string{"node", "outcome"}, // outcome: ok|error
	)

	NodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finassist_node_duration_seconds",
			Help:    "Orchestrator node execution duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"node"},
	)

	// Worker-agent metrics
	AgentCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finassist_agent_calls_total",
			Help: "Total number of worker agent invocations",
		},
		[]string{"agent", "status"}, // status: success|error|timeout
	)

	AgentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finassist_agent_latency_seconds",
			Help:    "Worker agent execution latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"agent"},
	)

	// LLM call metrics
	LLMCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finassist_llm_calls_total",
			Help: "Total number of language model calls",
		},
		[]string{"purpose", "status"}, // purpose: classify|judge|synthesize|score
	)

	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finassist_llm_latency_seconds",
			Help:    "Language model call latency in seconds",
			Buckets: []float64{0.2, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"purpose"},
	)

	// Response quality metrics
	ResponseConfidence = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finassist_response_confidence",
			Help:    "Confidence score distribution of produced responses",
			Buckets: []float64{0.1, 0.25, 0.45, 0.6, 0.75, 0.9, 1.0},
		},
		[]string{"grade"},
	)

	DegradedResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finassist_degraded_responses_total",
			Help: "Total number of responses synthesized without an LLM",
		},
		[]string{"reason"},
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finassist_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: postgres|clickhouse|redis
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finassist_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"database", "operation"},
	)

	// Cache metrics
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finassist_cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"cache", "op", "result"}, // result: hit|miss|error
	)
)

// Init registers all collectors with Prometheus.
func Init() {
	prometheus.MustRegister(NodeExecutions)
	prometheus.MustRegister(NodeDuration)

	prometheus.MustRegister(AgentCalls)
	prometheus.MustRegister(AgentLatency)

	prometheus.MustRegister(LLMCalls)
	prometheus.MustRegister(LLMLatency)

	prometheus.MustRegister(ResponseConfidence)
	prometheus.MustRegister(DegradedResponses)

	prometheus.MustRegister(DBQueries)
	prometheus.MustRegister(DBQueryDuration)

	prometheus.MustRegister(CacheOps)
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordNode records a single node execution.
func RecordNode(node, outcome string, duration time.Duration) {
	NodeExecutions.WithLabelValues(node, outcome).Inc()
	NodeDuration.WithLabelValues(node).Observe(duration.Seconds())
}

// RecordAgentCall records a single worker agent invocation.
func RecordAgentCall(agent, status string, latency time.Duration) {
	AgentCalls.WithLabelValues(agent, status).Inc()
	AgentLatency.WithLabelValues(agent).Observe(latency.Seconds())
}

// RecordLLMCall records a single language model call.
func RecordLLMCall(purpose, status string, latency time.Duration) {
	LLMCalls.WithLabelValues(purpose, status).Inc()
	LLMLatency.WithLabelValues(purpose).Observe(latency.Seconds())
}

// RecordDBQuery records a single database query.
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DBQueries.WithLabelValues(database, operation, status).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}

// RecordCacheOp records a single cache operation.
func RecordCacheOp(cache, op, result string) {
	CacheOps.WithLabelValues(cache, op, result).Inc()
}
