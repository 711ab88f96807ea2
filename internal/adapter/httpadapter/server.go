// Package httpadapter serves the process's single HTTP listener: the
// simulation API under /api/ next to the orchestrator probes and the
// Prometheus scrape endpoint.
package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	// Simulations are written synchronously to the store before replying.
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

// Server owns the listener for the impact service.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer routes /healthz, /readyz and /metrics, and hands every path under
// /api/ to api when it is non-nil.
func NewServer(addr string, ready sharedobs.ReadinessChecker, api http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           routes(loggedReadiness{ready, logger}, api),
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
		logger: logger,
	}
}

func routes(ready sharedobs.ReadinessChecker, api http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	if api != nil {
		mux.Handle("/api/", api)
	}
	return mux
}

// Handler returns the routed handler without a listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until Shutdown; it then returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("impact service listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting simulations and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// loggedReadiness reports why a readiness probe failed, since the probe
// response itself carries no detail the orchestrator logs.
type loggedReadiness struct {
	sharedobs.ReadinessChecker
	logger *slog.Logger
}

func (r loggedReadiness) CheckReadiness(ctx context.Context) error {
	err := r.ReadinessChecker.CheckReadiness(ctx)
	if err != nil {
		r.logger.Warn("impact service not ready", "error", err)
	}
	return err
}
