// Package server exposes one widget instance over HTTP, standing in for
// the dashboard host: the environment pushes telemetry refreshes and range
// selections in, and pulls exports and diagnostics out.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diyip/tb-pivot-excel/pkg/payload"
	"github.com/diyip/tb-pivot-excel/pkg/telemetry"
	"github.com/diyip/tb-pivot-excel/pkg/timerange"
	"github.com/diyip/tb-pivot-excel/pkg/widget"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server hosts one widget instance.
type Server struct {
	widget *widget.Instance
}

// New creates a server around a widget instance.
func New(w *widget.Instance) *Server {
	return &Server{widget: w}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api/v1")
	api.POST("/telemetry", s.handleTelemetry)
	api.PUT("/range", s.handleRange)
	api.POST("/export", s.handleExport)
	api.GET("/plan", s.handlePlan)
	api.GET("/debug", s.handleDebug)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// telemetryRequest is one data-refresh push from the host.
type telemetryRequest struct {
	Entity telemetry.Entity `json:"entity"`
	Batch  telemetry.Batch  `json:"batch"`
}

func (s *Server) handleTelemetry(c *gin.Context) {
	var req telemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid telemetry body: %v", err)})
		return
	}
	s.widget.OnTelemetryBatch(req.Entity, req.Batch)
	c.JSON(http.StatusOK, gin.H{
		"series": telemetry.SeriesCount(req.Batch),
		"points": telemetry.PointCount(req.Batch),
	})
}

// rangeRequest is the user's range-preset selection.
type rangeRequest struct {
	Preset       string `json:"preset"`
	CustomDays   int    `json:"customDays"`
	CustomMonths int    `json:"customMonths"`
}

func (s *Server) handleRange(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid range body: %v", err)})
		return
	}
	// Unknown presets are allowed: resolution falls back to last 60 days.
	s.widget.SelectRange(timerange.Preset(req.Preset), req.CustomDays, req.CustomMonths)
	c.JSON(http.StatusOK, gin.H{"preset": req.Preset, "known": timerange.Known(timerange.Preset(req.Preset))})
}

func (s *Server) handleExport(c *gin.Context) {
	result, err := s.widget.OnExportRequested(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, widget.ErrExportInFlight):
			status = http.StatusConflict
		case errors.Is(err, payload.ErrNoEntities),
			errors.Is(err, payload.ErrNoKeys),
			errors.Is(err, payload.ErrNoTenant):
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	defer result.Body.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, result.Body); err != nil {
		// Headers are already written; all we can do is abort the stream.
		c.Abort()
	}
}

func (s *Server) handlePlan(c *gin.Context) {
	report := s.widget.Debug()
	c.JSON(http.StatusOK, gin.H{
		"range": report.Range,
		"plan":  report.Plan,
	})
}

func (s *Server) handleDebug(c *gin.Context) {
	c.JSON(http.StatusOK, s.widget.Debug())
}
