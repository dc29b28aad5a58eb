package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/app/config"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
)

// Server wraps the standard http.Server with config-driven timeouts.
type Server struct {
	srv *http.Server
	log logger.Logger
}

func NewServer(cfg config.HTTPServerConfig, router http.Handler, log logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

// Start blocks until the listener stops.
func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until the context expires.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Infof("HTTP server shutting down")
	return s.srv.Shutdown(ctx)
}
