// Package aggregator fans a search query out to every configured source
// connector and merges their results in a fixed priority order.
package aggregator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/logger"
	"github.com/jonesrussell/veracity/internal/sources"
	"github.com/jonesrussell/veracity/internal/telemetry"
)

// Result is one connector's contribution: either posts or a diagnostic.
// A failed connector yields an empty contribution, never an aborted request.
type Result struct {
	Source domain.Source
	Posts  []domain.SocialPost
	Err    error
}

// Aggregator runs all connectors concurrently, each isolated so one
// connector's latency or failure cannot block or fail the others.
type Aggregator struct {
	connectors []sources.Connector
	timeout    time.Duration
	metrics    *telemetry.Metrics
	log        logger.Logger
}

// New creates an aggregator over the configured connectors. The connector
// slice order is the result priority order.
func New(connectors []sources.Connector, timeout time.Duration, metrics *telemetry.Metrics, log logger.Logger) *Aggregator {
	return &Aggregator{
		connectors: connectors,
		timeout:    timeout,
		metrics:    metrics,
		log:        log,
	}
}

// Aggregate fetches up to perSourceLimit posts from every connector and
// returns them concatenated in connector priority order, with each
// connector's own return order preserved. Completion order never leaks into
// result order. A connector still pending at the aggregation ceiling is
// treated as failed. Posts from different sources are not deduplicated;
// duplicate stories across communities are signal, not noise.
func (a *Aggregator) Aggregate(ctx context.Context, query string, perSourceLimit int) []domain.SocialPost {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// One slot per connector keeps the merge deterministic.
	results := make([]Result, len(a.connectors))

	var wg sync.WaitGroup
	for i, connector := range a.connectors {
		wg.Add(1)
		go func(slot int, c sources.Connector) {
			defer wg.Done()
			results[slot] = a.fetchOne(ctx, c, query, perSourceLimit)
		}(i, connector)
	}
	wg.Wait()

	return a.merge(results)
}

// fetchOne runs a single connector, mapping any failure to an
// empty-with-diagnostic result.
func (a *Aggregator) fetchOne(ctx context.Context, c sources.Connector, query string, limit int) Result {
	start := time.Now()

	posts, err := c.Fetch(ctx, query, limit)
	duration := time.Since(start)

	switch {
	case errors.Is(err, sources.ErrNotConfigured):
		a.metrics.RecordSourceFetch(c.Source(), telemetry.OutcomeSkipped, duration, 0)
		a.log.Debug("Source not configured, skipping",
			logger.String("source", string(c.Source())),
		)
	case err != nil:
		a.metrics.RecordSourceFetch(c.Source(), telemetry.OutcomeError, duration, 0)
		a.log.Warn("Source fetch failed",
			logger.String("source", string(c.Source())),
			logger.Duration("duration", duration),
			logger.Error(err),
		)
	default:
		a.metrics.RecordSourceFetch(c.Source(), telemetry.OutcomeOK, duration, len(posts))
		a.log.Debug("Source fetch succeeded",
			logger.String("source", string(c.Source())),
			logger.Int("posts", len(posts)),
			logger.Duration("duration", duration),
		)
	}

	if err != nil {
		return Result{Source: c.Source(), Err: err}
	}
	return Result{Source: c.Source(), Posts: posts}
}

// merge concatenates successful contributions in slot order.
func (a *Aggregator) merge(results []Result) []domain.SocialPost {
	merged := make([]domain.SocialPost, 0)
	for _, r := range results {
		merged = append(merged, r.Posts...)
	}
	return merged
}
