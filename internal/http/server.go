// Package http provides the HTTP API for actiond.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/actiond/internal/items"
	"github.com/fyrsmithlabs/actiond/internal/store"
)

// Server provides HTTP endpoints for actiond.
type Server struct {
	echo    *echo.Echo
	svc     *items.Service
	logger  *zap.Logger
	metrics *Metrics
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server.
func NewServer(svc *items.Service, logger *zap.Logger, cfg *Config) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8090,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	m := NewMetrics(logger)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(m.Middleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:    e,
		svc:     svc,
		logger:  logger,
		metrics: m,
		config:  cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	s.echo.POST("/action-items/extract", s.handleExtract)
	s.echo.GET("/action-items", s.handleListItems)
	s.echo.POST("/action-items/:id/done", s.handleDone)
	s.echo.GET("/notes", s.handleListNotes)
}

// ExtractRequest is the request body for POST /action-items/extract.
type ExtractRequest struct {
	Text     string `json:"text"`
	SaveNote bool   `json:"save_note"`
}

// ExtractResponse is the response body for POST /action-items/extract.
type ExtractResponse struct {
	NoteID *int64             `json:"note_id"`
	Items  []store.ActionItem `json:"items"`
}

// DoneRequest is the request body for POST /action-items/:id/done.
type DoneRequest struct {
	Done bool `json:"done"`
}

// DoneResponse is the response body for POST /action-items/:id/done.
type DoneResponse struct {
	ID   int64 `json:"id"`
	Done bool  `json:"done"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleExtract runs one extraction request end-to-end.
func (s *Server) handleExtract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid extract request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.svc.Extract(c.Request().Context(), req.Text, req.SaveNote)
	if err != nil {
		if errors.Is(err, items.ErrEmptyText) {
			return echo.NewHTTPError(http.StatusBadRequest, "text is required")
		}
		s.logger.Error("extraction failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to extract action items")
	}

	s.metrics.RecordExtraction(result.Source, len(result.Items))

	return c.JSON(http.StatusOK, ExtractResponse{NoteID: result.NoteID, Items: result.Items})
}

// handleListItems lists action items, optionally filtered by note_id.
func (s *Server) handleListItems(c echo.Context) error {
	var noteID *int64
	if raw := c.QueryParam("note_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "note_id must be an integer")
		}
		noteID = &id
	}

	list, err := s.svc.List(c.Request().Context(), noteID)
	if err != nil {
		s.logger.Error("failed to list action items", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list action items")
	}

	return c.JSON(http.StatusOK, list)
}

// handleDone toggles the done flag of one action item.
func (s *Server) handleDone(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}

	var req DoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.svc.SetDone(c.Request().Context(), id, req.Done); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "action item not found")
		}
		s.logger.Error("failed to update action item", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update action item")
	}

	return c.JSON(http.StatusOK, DoneResponse{ID: id, Done: req.Done})
}

// handleListNotes lists all notes with their items nested under them.
func (s *Server) handleListNotes(c echo.Context) error {
	notes, err := s.svc.Notes(c.Request().Context())
	if err != nil {
		s.logger.Error("failed to list notes", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list notes")
	}

	return c.JSON(http.StatusOK, notes)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
