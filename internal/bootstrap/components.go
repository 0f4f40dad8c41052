// Package bootstrap assembles the service components from configuration.
package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/veracity/internal/aggregator"
	"github.com/jonesrussell/veracity/internal/api"
	"github.com/jonesrussell/veracity/internal/cache"
	"github.com/jonesrussell/veracity/internal/config"
	"github.com/jonesrussell/veracity/internal/logger"
	"github.com/jonesrussell/veracity/internal/mlclient"
	"github.com/jonesrussell/veracity/internal/orchestrator"
	"github.com/jonesrussell/veracity/internal/query"
	"github.com/jonesrussell/veracity/internal/rationale"
	"github.com/jonesrussell/veracity/internal/telemetry"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	Server  *api.Server
	Handler *api.Handler
	Cache   *cache.ClassificationCache
}

// NewHTTPComponents creates all components for the HTTP server.
func NewHTTPComponents(cfg *config.Config, log logger.Logger) (*HTTPComponents, error) {
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(registry)

	ml := mlclient.NewClient(cfg.ML.URL, cfg.ML.Timeout)
	log.Info("ML client initialized", logger.String("url", cfg.ML.URL))

	queries := query.NewBuilder(ml, log)
	explainer := rationale.NewGenerator(ml, log)

	connectors, err := BuildConnectors(cfg.Sources, log)
	if err != nil {
		return nil, fmt.Errorf("build connectors: %w", err)
	}
	agg := aggregator.New(connectors, cfg.Aggregation.Timeout, metrics, log)

	orch := orchestrator.New(ml, queries, explainer, agg, cfg.Sources.PerSourceLimit, metrics, log)

	// Caching is opt-in; a Redis outage at startup downgrades to uncached
	// operation rather than failing the process.
	var classificationCache *cache.ClassificationCache
	if cfg.Redis.URL != "" {
		classificationCache, err = cache.New(cfg.Redis)
		if err != nil {
			log.Warn("Classification cache disabled", logger.Error(err))
		} else {
			orch.WithCache(classificationCache)
			log.Info("Classification cache enabled",
				logger.Duration("ttl", cfg.Redis.ClassificationCacheTTL),
			)
		}
	}

	handler := api.NewHandler(orch, ml, metrics, cfg.Service.Name, cfg.Service.Version, log)

	serverConfig := api.ServerConfig{
		Port:         cfg.Service.Port,
		Debug:        cfg.Service.Debug,
		ReadTimeout:  defaultHTTPTimeout,
		WriteTimeout: defaultHTTPTimeout,
	}

	var metricsHandler http.Handler = telemetry.Handler(registry)
	server := api.NewServer(serverConfig, log, func(router *gin.Engine) {
		api.SetupRoutes(router, handler, metricsHandler)
	})

	return &HTTPComponents{
		Server:  server,
		Handler: handler,
		Cache:   classificationCache,
	}, nil
}

// HTTPShutdownTimeout returns the timeout for HTTP server graceful shutdown.
func HTTPShutdownTimeout() time.Duration {
	return defaultHTTPTimeout
}
