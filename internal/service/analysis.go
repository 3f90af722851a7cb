// Package service wires the deterministic pipeline stages into the full
// analysis workflow: validate -> parse -> interpret -> evaluate -> assemble.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pharmaguard-server/internal/domain"
	"github.com/pharmaguard-server/internal/interpretation"
	"github.com/pharmaguard-server/internal/risk"
	"github.com/pharmaguard-server/internal/vcf"
)

// AnalysisService runs the end-to-end pharmacogenomic analysis for one
// request. It holds no per-request state; one instance serves concurrent
// requests without coordination.
type AnalysisService struct {
	parser      *vcf.Parser
	interpreter *interpretation.Interpreter
	mapper      *ResponseMapper
	maxFileSize int64
	log         *logrus.Logger
}

// NewAnalysisService creates the service.
func NewAnalysisService(mapper *ResponseMapper, maxFileSize int64, log *logrus.Logger) *AnalysisService {
	return &AnalysisService{
		parser:      vcf.NewParser(log),
		interpreter: interpretation.NewInterpreter(log),
		mapper:      mapper,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// Analyze runs the full pipeline and returns one response envelope per
// requested drug. Validation failures surface as *domain.ValidationError;
// only stream-level I/O failure is otherwise fatal.
func (s *AnalysisService) Analyze(ctx context.Context, filename string, size int64, file io.Reader, drugs string) ([]domain.AnalysisResponse, error) {
	if err := s.validate(filename, size); err != nil {
		return nil, err
	}

	start := time.Now()

	parseResult, err := s.parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing vcf upload: %w", err)
	}

	profiles := s.interpreter.Interpret(parseResult.Variants)
	drugRisks := risk.Evaluate(profiles, drugs)

	responses := s.mapper.Map(ctx, drugRisks, profiles, parseResult.Variants, parseResult.Success())

	s.log.WithFields(logrus.Fields{
		"variants": len(parseResult.Variants),
		"drugs":    len(drugRisks),
		"elapsed":  time.Since(start),
		"parse_ok": parseResult.Success(),
	}).Info("Analysis completed")

	return responses, nil
}

// ParseOnly runs just the parser stage; used by the dev parse endpoint.
func (s *AnalysisService) ParseOnly(filename string, size int64, file io.Reader) (*vcf.ParseResult, error) {
	if err := s.validate(filename, size); err != nil {
		return nil, err
	}
	return s.parser.Parse(file)
}

func (s *AnalysisService) validate(filename string, size int64) error {
	if filename == "" || size == 0 {
		return domain.NewValidationError("file", "No file uploaded", filename)
	}
	if !strings.HasSuffix(filename, ".vcf") {
		return domain.NewValidationError("file", "File must be a .vcf file", filename)
	}
	if size > s.maxFileSize {
		return domain.NewValidationError("file",
			fmt.Sprintf("File exceeds %d MB limit", s.maxFileSize/(1024*1024)), size)
	}
	return nil
}
