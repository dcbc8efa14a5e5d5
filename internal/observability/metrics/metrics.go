// Package metrics provides Prometheus instrumentation for proofgate.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	enabled bool

	// HTTP metrics
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec

	// Proof domain metrics
	proofIssueTotal   *prometheus.CounterVec
	proofVerifyTotal  *prometheus.CounterVec
	balanceProofTotal *prometheus.CounterVec
)

// Init initializes the metrics system.
func Init(enabledFlag bool) {
	enabled = enabledFlag

	if !enabled {
		return
	}

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	proofIssueTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proof_issue_total",
			Help: "Total number of proof issuance requests",
		},
		[]string{"status"},
	)

	proofVerifyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proof_verify_total",
			Help: "Total number of proof verification requests",
		},
		[]string{"result"},
	)

	balanceProofTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_proof_total",
			Help: "Total number of balance proof requests",
		},
		[]string{"status"},
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	if !enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.Handler()
}

// Enabled returns whether metrics are enabled.
func Enabled() bool {
	return enabled
}

// RecordProofIssue counts an issuance request outcome.
func RecordProofIssue(status string) {
	if enabled {
		proofIssueTotal.WithLabelValues(status).Inc()
	}
}

// RecordProofVerify counts a verification result.
func RecordProofVerify(result string) {
	if enabled {
		proofVerifyTotal.WithLabelValues(result).Inc()
	}
}

// RecordBalanceProof counts a balance-proof request outcome.
func RecordBalanceProof(status string) {
	if enabled {
		balanceProofTotal.WithLabelValues(status).Inc()
	}
}
