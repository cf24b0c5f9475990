package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homeeconomics/PriceMaps/internal/domain"
	"github.com/homeeconomics/PriceMaps/internal/geo"
	"github.com/homeeconomics/PriceMaps/internal/view"
)

// handleRegions returns the full comparison dataset.
// GET /api/v1/regions
func (s *Server) handleRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": s.dataset.Results,
		"meta": gin.H{
			"count":        len(s.dataset.Results),
			"latest_month": s.dataset.LatestMonth.Format("2006-01"),
			"prior_month":  s.dataset.PriorMonth.Format("2006-01"),
		},
	})
}

// breakpointsResponse is a Snapshot without the per-region payload.
type breakpointsResponse struct {
	Mode          view.Mode          `json:"mode"`
	Breakpoints   domain.Breakpoints `json:"breakpoints"`
	SmallSample   bool               `json:"small_sample"`
	UsedGlobal    bool               `json:"used_global"`
	Count         int                `json:"count"`
	MinPopulation int                `json:"min_population"`
	MaxPopulation int                `json:"max_population"`
}

// handleViewportBreakpoints computes breakpoints for a rectangular viewport.
// GET /api/v1/breakpoints?min_lat=..&min_lon=..&max_lat=..&max_lon=..
func (s *Server) handleViewportBreakpoints(c *gin.Context) {
	bounds, err := parseBounds(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selected := view.SelectViewport(s.dataset.Results, bounds)
	snap := view.Summarize(view.ModeViewport, selected, s.dataset.Global, s.cfg.SmallSampleThreshold, time.Now().UTC())

	s.metrics.SelectionRecomputes.WithLabelValues(string(view.ModeViewport)).Inc()
	s.metrics.SelectionSize.Observe(float64(snap.Count))

	c.JSON(http.StatusOK, gin.H{"data": toResponse(snap)})
}

// boundaryRequest carries a user-drawn polygon.
type boundaryRequest struct {
	Vertices []domain.Geo `json:"vertices"`
}

// handleBoundaryBreakpoints computes breakpoints for a drawn polygon.
// POST /api/v1/breakpoints/boundary
func (s *Server) handleBoundaryBreakpoints(c *gin.Context) {
	var req boundaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid boundary payload"})
		return
	}

	// Degenerate polygons select nothing; geo.Polygon handles that, so no
	// vertex-count rejection here.
	selected := view.SelectBoundary(s.dataset.Results, geo.Polygon(req.Vertices))
	snap := view.Summarize(view.ModeBoundary, selected, s.dataset.Global, s.cfg.SmallSampleThreshold, time.Now().UTC())

	s.metrics.SelectionRecomputes.WithLabelValues(string(view.ModeBoundary)).Inc()
	s.metrics.SelectionSize.Observe(float64(snap.Count))

	c.JSON(http.StatusOK, gin.H{"data": toResponse(snap)})
}

func toResponse(snap view.Snapshot) breakpointsResponse {
	return breakpointsResponse{
		Mode:          snap.Mode,
		Breakpoints:   snap.Breakpoints,
		SmallSample:   snap.SmallSample,
		UsedGlobal:    snap.UsedGlobal,
		Count:         snap.Count,
		MinPopulation: snap.MinPopulation,
		MaxPopulation: snap.MaxPopulation,
	}
}

func parseBounds(c *gin.Context) (geo.Bounds, error) {
	var bounds geo.Bounds
	var err error

	if bounds.MinLat, err = parseQueryFloat(c, "min_lat"); err != nil {
		return geo.Bounds{}, err
	}
	if bounds.MinLon, err = parseQueryFloat(c, "min_lon"); err != nil {
		return geo.Bounds{}, err
	}
	if bounds.MaxLat, err = parseQueryFloat(c, "max_lat"); err != nil {
		return geo.Bounds{}, err
	}
	if bounds.MaxLon, err = parseQueryFloat(c, "max_lon"); err != nil {
		return geo.Bounds{}, err
	}

	if !bounds.Valid() {
		return geo.Bounds{}, errInvertedBounds
	}
	return bounds, nil
}

func parseQueryFloat(c *gin.Context, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, &missingParamError{key}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &missingParamError{key}
	}
	return v, nil
}

type missingParamError struct{ key string }

func (e *missingParamError) Error() string {
	return e.key + " is required and must be a number"
}

var errInvertedBounds = errors.New("bounds are inverted: min must not exceed max")
