package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iwvelando/calckit/internal/rates"
	"github.com/iwvelando/calckit/pkg/currency"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP listener and the background collaborators behind it.
type Server struct {
	cfg        *Config
	logger     *zap.Logger
	handler    http.Handler
	httpServer *http.Server
	limiter    *RateLimiter
	refresher  *rates.Refresher
	cache      rates.Cache
}

// New builds a server from cfg: rate provider and cache, optional rate
// limiter and optional cache refresher.
func New(cfg *Config, version string, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := rates.NewProvider(cfg.Rates, logger)
	if err != nil {
		return nil, err
	}
	cache := rates.NewCache(cfg.Rates)
	service := rates.NewService(provider, cache, cfg.Rates.CacheTTL, logger)

	s := &Server{cfg: cfg, logger: logger, cache: cache}

	if cfg.RateLimit.Capacity > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	}

	if len(cfg.Refresh.Bases) > 0 {
		bases := make([]currency.Code, 0, len(cfg.Refresh.Bases))
		for _, raw := range cfg.Refresh.Bases {
			code, err := currency.ParseCode(raw)
			if err != nil {
				s.release()
				return nil, fmt.Errorf("invalid refresh base: %w", err)
			}
			bases = append(bases, code)
		}
		s.refresher, err = rates.NewRefresher(service, cfg.Refresh.Schedule, bases, logger)
		if err != nil {
			s.release()
			return nil, err
		}
	}

	s.handler = NewHandler(logger, Options{
		MaxRequestSize: cfg.RequestSizeBytes(),
		Version:        version,
		Rates:          service,
		Limiter:        s.limiter,
	})
	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.refresher != nil {
		s.refresher.RefreshNow(ctx)
		s.refresher.Start()
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("starting calckit API",
			zap.String("op", "server.Run"),
			zap.String("address", s.cfg.Address),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		if s.refresher != nil {
			s.refresher.Stop(ctx)
		}
		s.release()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down calckit API",
			zap.String("op", "server.Run"),
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	if s.refresher != nil {
		s.refresher.Stop(shutdownCtx)
	}
	s.release()
	if err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	return nil
}

func (s *Server) release() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if closer, ok := s.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn("failed to close rate cache",
				zap.String("op", "server.release"),
				zap.Error(err),
			)
		}
	}
}
