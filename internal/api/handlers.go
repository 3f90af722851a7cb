package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pharmaguard-server/internal/audit"
	"github.com/pharmaguard-server/internal/domain"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

// handleAnalyze accepts a multipart VCF upload plus a comma-separated
// drugs field and returns one risk envelope per requested drug.
func (s *Server) handleAnalyze(c *gin.Context) {
	requestID := c.GetString("correlation_id")
	start := time.Now()

	header, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput,
			"No file uploaded", err.Error(), requestID)
		return
	}

	file, err := header.Open()
	if err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput,
			"Could not read uploaded file", err.Error(), requestID)
		return
	}
	defer file.Close()

	drugs := c.PostForm("drugs")

	responses, err := s.analysis.Analyze(c.Request.Context(), header.Filename, header.Size, file, drugs)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			s.writeError(c, http.StatusBadRequest, domain.ErrValidation,
				vErr.Message, vErr.Field, requestID)
			return
		}
		s.log.WithError(err).Error("Analysis failed")
		s.writeError(c, http.StatusInternalServerError, domain.ErrInternalServer,
			"Analysis failed", "", requestID)
		return
	}

	s.recordUsage(requestID, responses, time.Since(start))

	c.JSON(http.StatusOK, gin.H{"results": responses})
}

// handleParse runs only the parser stage. Development aid for checking
// how a VCF is read before asking for a risk assessment.
func (s *Server) handleParse(c *gin.Context) {
	requestID := c.GetString("correlation_id")

	header, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput,
			"No file uploaded", err.Error(), requestID)
		return
	}

	file, err := header.Open()
	if err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput,
			"Could not read uploaded file", err.Error(), requestID)
		return
	}
	defer file.Close()

	result, err := s.analysis.ParseOnly(header.Filename, header.Size, file)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			s.writeError(c, http.StatusBadRequest, domain.ErrValidation,
				vErr.Message, vErr.Field, requestID)
			return
		}
		s.writeError(c, http.StatusBadRequest, domain.ErrParseFailure,
			"Could not parse VCF", err.Error(), requestID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": result.Variants,
		"metadata": result.Metadata,
		"errors":   result.Errors,
		"success":  result.Success(),
	})
}

// recordUsage persists aggregate telemetry only. No genomic data and no
// per-drug results ever reach the audit store.
func (s *Server) recordUsage(requestID string, responses []domain.AnalysisResponse, elapsed time.Duration) {
	tallies := make(map[string]int)
	parseOK := true
	for _, r := range responses {
		tallies[string(r.RiskAssessment.RiskLabel)]++
		parseOK = parseOK && r.QualityMetrics.VCFParsingSuccess
	}

	rec := &audit.Record{
		RequestID:    requestID,
		DrugCount:    len(responses),
		LabelTallies: tallies,
		ParseSuccess: parseOK,
		LatencyMS:    elapsed.Milliseconds(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.auditor.Save(ctx, rec); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).WithError(err).Warn("Usage audit write failed")
	}
}

func (s *Server) writeError(c *gin.Context, status int, code, message, details, requestID string) {
	c.JSON(status, gin.H{"error": domain.NewAPIError(code, message, details, requestID)})
}
