// Package server exposes performance reports and evaluated goals over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tradejournal/internal/analytics"
	"tradejournal/internal/config"
	"tradejournal/internal/logging"
	"tradejournal/internal/metrics"
	"tradejournal/internal/models"
)

// Analytics is the read side the handlers serve.
type Analytics interface {
	PerformanceReport(ctx context.Context, userID string) (*analytics.Report, error)
	EvaluatedGoals(ctx context.Context, userID string) ([]models.EvaluatedGoal, error)
}

// Pinger reports storage reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP presentation adapter.
type Server struct {
	cfg       config.ServerConfig
	engine    *gin.Engine
	analytics Analytics
	store     Pinger
	metrics   *metrics.Registry
	logger    zerolog.Logger
}

// New creates a server and registers its routes. store and reg may be nil.
func New(cfg config.ServerConfig, a Analytics, store Pinger, reg *metrics.Registry, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:       cfg,
		engine:    gin.New(),
		analytics: a,
		store:     store,
		metrics:   reg,
		logger:    logging.WithOperation(logger, "http"),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())

	s.engine.GET("/healthz", s.health)
	s.engine.GET("/readyz", s.ready)
	if reg != nil {
		s.engine.GET("/metrics", gin.WrapH(reg.Handler()))
	}

	users := s.engine.Group("/api/v1/users/:userID")
	users.GET("/performance", s.performance)
	users.GET("/goals", s.goals)

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown requested")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		var err error
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		}
		logging.LogRequest(s.logger, c.Request.Method, c.Request.URL.Path, status, elapsed, err)
		if s.metrics != nil {
			s.metrics.RecordRequest(c.Request.Method, route, status, elapsed)
		}
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ready(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store_missing"})
		return
	}
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store_unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) performance(c *gin.Context) {
	report, err := s.analytics.PerformanceReport(c.Request.Context(), c.Param("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, report, nil)
}

func (s *Server) goals(c *gin.Context) {
	goals, err := s.analytics.EvaluatedGoals(c.Request.Context(), c.Param("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, goals, map[string]any{"count": len(goals)})
}
