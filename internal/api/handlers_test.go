package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/veracity/internal/api"
	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/logger"
	"github.com/jonesrussell/veracity/internal/mlclient"
	"github.com/jonesrussell/veracity/internal/orchestrator"
)

type stubChecker struct {
	result *domain.AggregatedResponse
	err    error
}

func (s *stubChecker) Check(_ context.Context, _ string) (*domain.AggregatedResponse, error) {
	return s.result, s.err
}

type stubMLHealth struct {
	reachable    bool
	latencyMs    int64
	modelVersion string
	err          error
}

func (s *stubMLHealth) Health(_ context.Context) (bool, int64, string, error) {
	return s.reachable, s.latencyMs, s.modelVersion, s.err
}

func newTestRouter(checker api.Checker, mlHealth api.MLHealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := api.NewHandler(checker, mlHealth, nil, "veracity", "1.0.0", logger.NewNop())
	api.SetupRoutes(router, handler, http.NotFoundHandler())
	return router
}

func postPredict(router *gin.Engine, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict_explain", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPredictExplain_Success(t *testing.T) {
	checker := &stubChecker{result: &domain.AggregatedResponse{
		Classification: domain.ClassificationResult{
			Label:         domain.LabelReal,
			Confidence:    0.91,
			Probabilities: []float64{0.09, 0.91},
		},
		Explanation: domain.Explanation{
			Summary:    "The model predicts this is REAL with 0.91 confidence.",
			Method:     "simple_rationale_v1",
			Highlights: []domain.Highlight{{Span: "president", Score: 0.96}},
		},
		SocialContext: []domain.SocialPost{
			{Text: "corroborating post", URL: "https://example.com/p", Source: domain.SourceReddit},
		},
		SearchTerm: "transit plan",
	}}
	router := newTestRouter(checker, &stubMLHealth{reachable: true})

	rec := postPredict(router, []byte(`{"text":"city approves transit plan"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "REAL", resp.Label)
	assert.InDelta(t, 0.91, resp.Confidence, 1e-9)
	assert.Equal(t, []float64{0.09, 0.91}, resp.Probs)
	assert.Equal(t, "simple_rationale_v1", resp.Explanation.Method)
	require.Len(t, resp.SocialContext, 1)
	assert.Equal(t, "reddit", resp.SocialContext[0].Source)
	assert.Equal(t, "transit plan", resp.SearchTerm)
}

func TestPredictExplain_FakeOmitsSearchTerm(t *testing.T) {
	checker := &stubChecker{result: &domain.AggregatedResponse{
		Classification: domain.ClassificationResult{
			Label:         domain.LabelFake,
			Confidence:    0.83,
			Probabilities: []float64{0.83, 0.17},
		},
		Explanation:   domain.Explanation{Summary: "s", Method: "simple_rationale_v1"},
		SocialContext: []domain.SocialPost{},
	}}
	router := newTestRouter(checker, &stubMLHealth{reachable: true})

	rec := postPredict(router, []byte(`{"text":"aliens run the treasury"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "search_term")
	assert.JSONEq(t, `[]`, string(raw["social_context"]))
}

func TestPredictExplain_BadRequestBody(t *testing.T) {
	router := newTestRouter(&stubChecker{}, &stubMLHealth{reachable: true})

	rec := postPredict(router, []byte(`{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictExplain_EmptyText(t *testing.T) {
	checker := &stubChecker{err: orchestrator.ErrEmptyText}
	router := newTestRouter(checker, &stubMLHealth{reachable: true})

	rec := postPredict(router, []byte(`{"text":""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "text must not be empty")
}

func TestPredictExplain_ModelUnavailable(t *testing.T) {
	checker := &stubChecker{
		err: fmt.Errorf("classify: %w", fmt.Errorf("%w: connection refused", mlclient.ErrUnavailable)),
	}
	router := newTestRouter(checker, &stubMLHealth{reachable: true})

	rec := postPredict(router, []byte(`{"text":"some claim"}`))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "model unavailable")
}

func TestPredictExplain_InternalError(t *testing.T) {
	checker := &stubChecker{err: errors.New("unexpected")}
	router := newTestRouter(checker, &stubMLHealth{reachable: true})

	rec := postPredict(router, []byte(`{"text":"some claim"}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubChecker{}, &stubMLHealth{reachable: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"service":"veracity"`)
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name     string
		mlHealth *stubMLHealth
		wantCode int
	}{
		{
			name:     "ml reachable",
			mlHealth: &stubMLHealth{reachable: true, latencyMs: 12},
			wantCode: http.StatusOK,
		},
		{
			name:     "ml unreachable",
			mlHealth: &stubMLHealth{err: fmt.Errorf("%w: connection refused", mlclient.ErrUnavailable)},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubChecker{}, tt.mlHealth)

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestGetMLHealth(t *testing.T) {
	router := newTestRouter(&stubChecker{}, &stubMLHealth{
		reachable:    true,
		latencyMs:    42,
		modelVersion: "distilbert-v2",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics/ml-health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.MLHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Reachable)
	assert.Equal(t, int64(42), resp.LatencyMs)
	assert.Equal(t, "distilbert-v2", resp.ModelVersion)
}
