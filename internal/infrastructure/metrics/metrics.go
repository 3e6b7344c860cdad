package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the host daemon's Prometheus metrics.
type Metrics struct {
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	TransactionsAdded   prometheus.Counter
	TransactionsDeleted prometheus.Counter
	ExportsWritten      *prometheus.CounterVec
	AuthFailures        prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RPCRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "torcalc_rpc_requests_total",
			Help: "Total number of bridge RPC requests",
		}, []string{"method", "result"}),
		RPCDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "torcalc_rpc_duration_seconds",
			Help:    "Bridge RPC handling duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		TransactionsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "torcalc_transactions_added_total",
			Help: "Total number of transactions added",
		}),
		TransactionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "torcalc_transactions_deleted_total",
			Help: "Total number of transactions deleted",
		}),
		ExportsWritten: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "torcalc_exports_written_total",
			Help: "Total number of export files written",
		}, []string{"format"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "torcalc_auth_failures_total",
			Help: "Total number of failed login attempts",
		}),
	}
}
