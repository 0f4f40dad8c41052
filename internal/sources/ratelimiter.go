package sources

import (
	"context"
	"fmt"

	"github.com/jonesrussell/veracity/internal/domain"
	"golang.org/x/time/rate"
)

// limitedConnector wraps a Connector with a token-bucket rate limit so a
// burst of requests cannot hammer one external API.
type limitedConnector struct {
	inner   Connector
	limiter *rate.Limiter
}

// WithRateLimit wraps c so that Fetch waits for the limiter before any
// network I/O. rps is requests per second; burst defaults to rps when zero.
func WithRateLimit(c Connector, rps, burst int) Connector {
	if rps <= 0 {
		return c
	}
	if burst <= 0 {
		burst = rps
	}
	return &limitedConnector{
		inner:   c,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (l *limitedConnector) Source() domain.Source {
	return l.inner.Source()
}

func (l *limitedConnector) Fetch(ctx context.Context, query string, limit int) ([]domain.SocialPost, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return l.inner.Fetch(ctx, query, limit)
}
