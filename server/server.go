// Package server exposes the pipeline over HTTP: a health check, a single
// analyze endpoint accepting a video upload, and Prometheus metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cooper-labs/cooper-video-analysis/analysis"
	"github.com/cooper-labs/cooper-video-analysis/config"
)

// Runner is the part of the pipeline the server needs.
type Runner interface {
	Run(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

type Server struct {
	cfg    *config.Root
	log    *logrus.Entry
	runner Runner
	http   *http.Server
}

func New(cfg *config.Root, log *logrus.Logger, runner Runner) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log.WithField("component", "server"),
		runner: runner,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.Use(s.metricsMiddleware)

	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the context is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.http.Addr).Info("http server listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
