package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/logger"
	"github.com/jonesrussell/veracity/internal/mlclient"
	"github.com/jonesrussell/veracity/internal/orchestrator"
	"github.com/jonesrussell/veracity/internal/telemetry"
)

// readinessTimeout bounds the ML probe during readiness checks.
const readinessTimeout = 5 * time.Second

// Checker runs the prediction pipeline for one input.
type Checker interface {
	Check(ctx context.Context, text string) (*domain.AggregatedResponse, error)
}

// MLHealthChecker probes the ML sidecar.
type MLHealthChecker interface {
	Health(ctx context.Context) (reachable bool, latencyMs int64, modelVersion string, err error)
}

// Handler handles HTTP requests for the veracity API.
type Handler struct {
	checker   Checker
	mlHealth  MLHealthChecker
	metrics   *telemetry.Metrics
	service   string
	version   string
	startTime time.Time
	log       logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(checker Checker, mlHealth MLHealthChecker, metrics *telemetry.Metrics, service, version string, log logger.Logger) *Handler {
	return &Handler{
		checker:   checker,
		mlHealth:  mlHealth,
		metrics:   metrics,
		service:   service,
		version:   version,
		startTime: time.Now(),
		log:       log,
	}
}

// PredictExplain handles POST /predict_explain.
func (h *Handler) PredictExplain(c *gin.Context) {
	start := time.Now()

	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordRequest(telemetry.OutcomeError, time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.checker.Check(c.Request.Context(), req.Text)
	if err != nil {
		h.metrics.RecordRequest(telemetry.OutcomeError, time.Since(start))

		switch {
		case errors.Is(err, orchestrator.ErrEmptyText):
			c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})
		case errors.Is(err, mlclient.ErrUnavailable):
			h.log.Error("Classification gateway unavailable", logger.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model unavailable"})
		default:
			h.log.Error("Prediction failed", logger.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.metrics.RecordRequest(telemetry.OutcomeOK, time.Since(start))

	h.log.Info("Prediction served",
		logger.String("label", string(result.Classification.Label)),
		logger.Float64("confidence", result.Classification.Confidence),
		logger.Int("context_posts", len(result.SocialContext)),
		logger.Duration("duration", time.Since(start)),
	)

	c.JSON(http.StatusOK, toPredictResponse(result))
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
		"version": h.version,
		"uptime":  time.Since(h.startTime).Truncate(time.Second).String(),
	})
}

// ReadyCheck handles GET /ready. The service is ready only when the ML
// sidecar is reachable; without it every prediction would fail.
func (h *Handler) ReadyCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	reachable, _, _, err := h.mlHealth.Health(ctx)
	if !reachable {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// GetMLHealth handles GET /api/v1/metrics/ml-health.
func (h *Handler) GetMLHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	reachable, latencyMs, modelVersion, err := h.mlHealth.Health(ctx)

	resp := MLHealthResponse{
		Reachable:    reachable,
		LatencyMs:    latencyMs,
		ModelVersion: modelVersion,
		LastChecked:  time.Now().UTC(),
	}
	if err != nil {
		resp.Error = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}
