// Package server exposes the comparison dataset and the selection engine as
// a read-only HTTP API, alongside the generated map files.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homeeconomics/PriceMaps/internal/config"
	"github.com/homeeconomics/PriceMaps/internal/observability"
	"github.com/homeeconomics/PriceMaps/internal/render"
)

// Server bundles router and dependencies for the query API.
type Server struct {
	cfg     *config.Config
	dataset render.Dataset
	logger  *slog.Logger
	metrics *observability.Metrics
	engine  *gin.Engine
}

// New constructs a server over a loaded dataset.
func New(cfg *config.Config, dataset render.Dataset, logger *slog.Logger, metrics *observability.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:     cfg,
		dataset: dataset,
		logger:  logger,
		metrics: metrics,
		engine:  engine,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.Static("/maps", s.cfg.OutputDir)

	v1 := s.engine.Group("/api/v1")
	v1.GET("/regions", s.handleRegions)
	v1.GET("/breakpoints", s.handleViewportBreakpoints)
	v1.POST("/breakpoints/boundary", s.handleBoundaryBreakpoints)
}

// Run starts the HTTP listener on the configured address.
func (s *Server) Run() error {
	s.logger.Info("query api starting", "addr", s.cfg.HTTPAddr, "regions", len(s.dataset.Results))
	return s.engine.Run(s.cfg.HTTPAddr)
}

// ServeHTTP delegates to the underlying router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
