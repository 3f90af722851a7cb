package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard-server/internal/audit"
	"github.com/pharmaguard-server/internal/domain"
	"github.com/pharmaguard-server/internal/narrative"
	"github.com/pharmaguard-server/internal/service"
)

const testVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	PATIENT
22	42126611	rs3892097	C	T	95	PASS	GENE=CYP2D6;STAR=*4	GT	1/1
`

// recordingStore captures saved audit records for assertions.
type recordingStore struct {
	audit.NopStore
	saved []*audit.Record
}

func (s *recordingStore) Save(_ context.Context, record *audit.Record) error {
	s.saved = append(s.saved, record)
	return nil
}

func newTestServer(t *testing.T) (*Server, *recordingStore) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	narrator, err := narrative.NewGenerator(context.Background(),
		domain.NarratorConfig{Enabled: false}, nil, logger)
	require.NoError(t, err)

	analysis := service.NewAnalysisService(
		service.NewResponseMapper(narrator), 5*1024*1024, logger)

	cfg := &domain.Config{
		Server: domain.ServerConfig{
			Host:           "127.0.0.1",
			Port:           0,
			ReadTimeout:    time.Second,
			WriteTimeout:   time.Second,
			IdleTimeout:    time.Second,
			RateLimit:      1000,
			RateLimitBurst: 1000,
		},
		Logging: domain.LoggingConfig{Level: "error"},
	}

	store := &recordingStore{}
	return NewServer(cfg, analysis, store, logger), store
}

func multipartBody(t *testing.T, filename, content, drugs string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	if drugs != "" {
		require.NoError(t, writer.WriteField("drugs", drugs))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestAnalyzeEndpoint_Success(t *testing.T) {
	server, store := newTestServer(t)

	body, contentType := multipartBody(t, "patient.vcf", testVCF, "CODEINE")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []domain.AnalysisResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)

	result := resp.Results[0]
	assert.Equal(t, "CODEINE", result.Drug)
	assert.Equal(t, domain.RiskIneffective, result.RiskAssessment.RiskLabel)
	assert.Equal(t, "PM", result.PharmacogenomicProfile.Phenotype)

	// Usage telemetry recorded, no genomic data in it
	require.Len(t, store.saved, 1)
	assert.Equal(t, 1, store.saved[0].DrugCount)
	assert.Equal(t, map[string]int{"Ineffective": 1}, store.saved[0].LabelTallies)
}

func TestAnalyzeEndpoint_MissingFile(t *testing.T) {
	server, _ := newTestServer(t)

	body, contentType := multipartBody(t, "", "", "CODEINE")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrInvalidInput)
}

func TestAnalyzeEndpoint_WrongExtension(t *testing.T) {
	server, _ := newTestServer(t)

	body, contentType := multipartBody(t, "patient.txt", testVCF, "CODEINE")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File must be a .vcf file")
}

func TestParseEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	body, contentType := multipartBody(t, "patient.vcf", testVCF, "")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", body)
	req.Header.Set("Content-Type", contentType)
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool                   `json:"success"`
		Variants []domain.VariantRecord `json:"variants"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Variants, 1)
}

func TestCorrelationIDPropagation(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "trace-me")
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, "trace-me", w.Header().Get("X-Correlation-ID"))
}

func TestSecurityHeadersPresent(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
