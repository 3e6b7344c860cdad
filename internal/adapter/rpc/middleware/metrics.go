package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/triazov/torcalc/internal/infrastructure/metrics"
)

// MetricsMiddleware records per-method RPC counters and latencies.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics collection.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		method := chi.URLParam(r, "method")
		if method == "" {
			method = r.URL.Path
		}
		m.metrics.RPCRequests.WithLabelValues(method, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.RPCDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	})
}
