package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rgehrsitz/goalcalc/internal/analyzer"
	"github.com/rgehrsitz/goalcalc/internal/calculation"
	"github.com/rgehrsitz/goalcalc/internal/config"
	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// MaxRequestPaths caps the per-request path count override
const MaxRequestPaths = 100000

// AnalyzeRequest is a goal plus optional simulation overrides
type AnalyzeRequest struct {
	domain.GoalSpec
	Seed  *int64 `json:"seed,omitempty"`
	Paths int    `json:"paths,omitempty"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"name":      "Financial Goal Analyzer API",
		"version":   domain.Version,
		"endpoints": []string{"/api/analyze", "/api/analyze/batch", "/api/profiles", "/api/health", "/metrics"},
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.analyzer.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleProfiles(c echo.Context) error {
	return c.JSON(http.StatusOK, calculation.Profiles())
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return badRequest(c, "invalid request body: %v", he.Message)
		}
		return badRequest(c, "invalid request body: %v", err)
	}

	seed := s.analyzer.Options().Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	paths := s.analyzer.Options().Paths
	if req.Paths != 0 {
		if req.Paths < 1 || req.Paths > MaxRequestPaths {
			return errorResponse(c, domain.NewValidationError("analyze", "paths", "ERR_RANGE",
				fmt.Sprintf("paths must be between 1 and %d, got %d", MaxRequestPaths, req.Paths)))
		}
		paths = req.Paths
	}

	result, err := s.analyzer.Run(c.Request().Context(), req.GoalSpec, seed, paths)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleBatch(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "multipart field \"file\" is required")
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		return badRequest(c, "File must be a CSV")
	}

	f, err := fh.Open()
	if err != nil {
		return errorResponse(c, fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	rows, err := config.ReadGoals(f)
	if err != nil {
		return badRequest(c, "%v", err)
	}

	s.logger.Infof("batch upload %s: %d rows", fh.Filename, len(rows))
	result := s.analyzer.AnalyzeBatch(c.Request().Context(), rows)
	return c.JSON(http.StatusOK, batchResponse(result))
}

// batchResponse flattens the summary counts to the top level of the body
func batchResponse(b *analyzer.BatchResult) map[string]any {
	return map[string]any{
		"total":              b.Summary.Total,
		"green":              b.Summary.Green,
		"yellow":             b.Summary.Yellow,
		"red":                b.Summary.Red,
		"failed":             b.Summary.Failed,
		"averageProbability": b.Summary.AverageProbability,
		"processedAt":        b.Summary.ProcessedAt,
		"results":            b.Items,
	}
}
