package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/veracity/internal/config"
	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/logger"
	"github.com/jonesrussell/veracity/internal/sources"
	"github.com/jonesrussell/veracity/internal/sources/googlenews"
	"github.com/jonesrussell/veracity/internal/sources/reddit"
	"github.com/jonesrussell/veracity/internal/sources/twitter"
)

const rateLimitBurst = 2

// BuildConnectors resolves the enabled source names into connectors, in the
// configured order. The order is load-bearing: aggregated posts are merged
// by connector position, not by completion time. Each connector is wrapped
// with a per-source rate limiter.
func BuildConnectors(cfg config.SourcesConfig, log logger.Logger) ([]sources.Connector, error) {
	connectors := make([]sources.Connector, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		c, err := buildConnector(name, cfg)
		if err != nil {
			return nil, err
		}
		connectors = append(connectors, sources.WithRateLimit(c, cfg.RequestsPerSec, rateLimitBurst))
		log.Info("Source connector enabled",
			logger.String("source", name),
			logger.Int("requests_per_sec", cfg.RequestsPerSec),
		)
	}
	return connectors, nil
}

func buildConnector(name string, cfg config.SourcesConfig) (sources.Connector, error) {
	switch domain.Source(name) {
	case domain.SourceReddit:
		return reddit.New(cfg.Reddit, cfg.RequestTimeout), nil
	case domain.SourceGoogleNews:
		return googlenews.New(cfg.GoogleNews, cfg.RequestTimeout), nil
	case domain.SourceTwitter:
		return twitter.New(cfg.Twitter, cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}
