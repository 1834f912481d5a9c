// Package server exposes outlooks, best-time rankings and the activity
// catalog over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ngmaloney/coastal-activities/internal/besttime"
	"github.com/ngmaloney/coastal-activities/internal/config"
	"github.com/ngmaloney/coastal-activities/internal/metrics"
	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/planner"
)

// Planner is the subset of *planner.Planner the API needs
type Planner interface {
	Outlook(ctx context.Context, req planner.Request) (*planner.Outlook, error)
	BestTime(personaID string, n int) ([]besttime.MonthScore, error)
	Personas() []models.VisitorPersona
}

// Catalog lists and fetches activities
type Catalog interface {
	List(ctx context.Context) ([]models.Activity, error)
	Get(ctx context.Context, id string) (*models.Activity, error)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg     config.ServerConfig
	loc     config.LocationConfig
	planner Planner
	catalog Catalog
	logger  *slog.Logger
	engine  *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, p Planner, catalog Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestMetrics())
	engine.Use(requestLogger(logger))

	s := &Server{
		cfg:     cfg.Server,
		loc:     cfg.Location,
		planner: p,
		catalog: catalog,
		logger:  logger,
		engine:  engine,
	}
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("api shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/v1")
	v1.GET("/outlook", s.handleOutlook)
	v1.GET("/best-time", s.handleBestTime)
	v1.GET("/personas", s.handlePersonas)
	v1.GET("/activities", s.handleListActivities)
	v1.GET("/activities/:id", s.handleGetActivity)
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
