// Package httpapi exposes the trading-simulation API over HTTP: public quote
// and chart endpoints, authenticated portfolio and order endpoints, and a
// websocket quote stream.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"trademo/internal/application/service"
)

// Deps carries the collaborators the server routes to.
type Deps struct {
	Portfolios *service.PortfolioService
	Orders     *service.OrderService
	Quotes     *service.QuoteService
	Verifier   TokenVerifier

	AllowedOrigins []string
	StreamInterval time.Duration
}

type Server struct {
	deps   Deps
	server *http.Server
}

func New(addr string, deps Deps) *Server {
	if deps.StreamInterval <= 0 {
		deps.StreamInterval = 15 * time.Second
	}
	s := &Server{deps: deps}
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(s.routes()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down http server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
