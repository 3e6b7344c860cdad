package rpc

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/triazov/torcalc/internal/adapter/rpc/handler"
	"github.com/triazov/torcalc/internal/adapter/rpc/middleware"
	"github.com/triazov/torcalc/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	RPCHandler *handler.RPCHandler
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

// NewRouter creates the host's bridge router: the RPC surface under
// /rpc/{method} plus a metrics endpoint, all served on the unix socket.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)

	r.Route("/rpc", func(r chi.Router) {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
		r.Post("/{method}", cfg.RPCHandler.Handle)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
