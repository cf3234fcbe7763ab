// Package web exposes the interview service over HTTP: a JSON API for the
// session lifecycle, report retrieval, and export, plus a websocket on which
// the candidate's browser streams recognition and camera signals up and
// receives speak/warning/termination directives back.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TejasKumarBoddu1/ava/internal/health"
	"github.com/TejasKumarBoddu1/ava/internal/observe"
)

// shutdownTimeout bounds graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// ReadHeaderTimeout bounds how long a client may take to send request
	// headers. Zero applies a 10 s default.
	ReadHeaderTimeout time.Duration

	// CertFile and KeyFile enable TLS when both are set.
	CertFile string
	KeyFile  string
}

// Server is the HTTP front of the interview service.
type Server struct {
	srv      *http.Server
	log      *slog.Logger
	certFile string
	keyFile  string
}

// NewServer assembles the full handler chain: API routes, health probes, and
// the Prometheus scrape endpoint, all behind the observe middleware.
func NewServer(cfg ServerConfig, api *API, metrics *observe.Metrics, log *slog.Logger, checkers ...health.Checker) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = 10 * time.Second
	}

	mux := http.NewServeMux()
	api.Register(mux)
	health.New(checkers...).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := observe.Middleware(metrics)(mux)

	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		log:      log,
		certFile: cfg.CertFile,
		keyFile:  cfg.KeyFile,
	}
}

// Handler returns the assembled handler chain, for tests and for embedding
// the API under another server.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests for up to
// [shutdownTimeout]. A nil error means the server stopped cleanly.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if s.certFile != "" && s.keyFile != "" {
			errCh <- s.srv.ListenAndServeTLS(s.certFile, s.keyFile)
			return
		}
		errCh <- s.srv.ListenAndServe()
	}()

	s.log.Info("http server listening", "addr", s.srv.Addr, "tls", s.certFile != "")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
