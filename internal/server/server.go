package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rgehrsitz/goalcalc/internal/analyzer"
	"github.com/rgehrsitz/goalcalc/internal/calculation"
	"github.com/rgehrsitz/goalcalc/internal/config"
)

// Server wraps the Echo HTTP server exposing the analyzer.
type Server struct {
	echo     *echo.Echo
	config   config.ServerConfig
	analyzer *analyzer.Analyzer
	logger   calculation.Logger
}

// New creates a server. Collectors are registered with reg, which also
// backs /metrics; a nil reg gets a private registry.
func New(a *analyzer.Analyzer, cfg config.ServerConfig, logger calculation.Logger, reg *prometheus.Registry) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = config.Default().Server.MaxUpload
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(requestLogging(logger))
	e.Use(requestMetrics(reg))
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s := &Server{echo: e, config: cfg, analyzer: a, logger: logger}
	s.registerRoutes()
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleRoot)
	api := s.echo.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/profiles", s.handleProfiles)
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/analyze/batch", s.handleBatch, middleware.BodyLimit(fmt.Sprintf("%dB", s.config.MaxUpload)))
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.echo,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("http server: listening on %s", srv.Addr)
		if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.logger.Infof("http server: stopped gracefully")
	return nil
}
