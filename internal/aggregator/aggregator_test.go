package aggregator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/veracity/internal/aggregator"
	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/logger"
	"github.com/jonesrussell/veracity/internal/sources"
)

// stubConnector returns canned posts after an optional delay.
type stubConnector struct {
	source domain.Source
	posts  []domain.SocialPost
	err    error
	delay  time.Duration
}

func (s *stubConnector) Source() domain.Source { return s.source }

func (s *stubConnector) Fetch(ctx context.Context, _ string, limit int) ([]domain.SocialPost, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if len(s.posts) > limit {
		return s.posts[:limit], nil
	}
	return s.posts, nil
}

func posts(source domain.Source, texts ...string) []domain.SocialPost {
	out := make([]domain.SocialPost, 0, len(texts))
	for _, text := range texts {
		out = append(out, domain.SocialPost{Text: text, Source: source})
	}
	return out
}

func TestAggregate_MergesInConnectorOrder(t *testing.T) {
	connectors := []sources.Connector{
		// The first connector is slower; its posts must still come first.
		&stubConnector{
			source: domain.SourceReddit,
			posts:  posts(domain.SourceReddit, "r1", "r2"),
			delay:  50 * time.Millisecond,
		},
		&stubConnector{
			source: domain.SourceGoogleNews,
			posts:  posts(domain.SourceGoogleNews, "g1", "g2", "g3"),
		},
	}
	agg := aggregator.New(connectors, time.Second, nil, logger.NewNop())

	got := agg.Aggregate(context.Background(), "query", 5)

	require.Len(t, got, 5)
	assert.Equal(t, "r1", got[0].Text)
	assert.Equal(t, "r2", got[1].Text)
	assert.Equal(t, "g1", got[2].Text)
	assert.Equal(t, domain.SourceGoogleNews, got[4].Source)
}

func TestAggregate_FailedConnectorDoesNotAbort(t *testing.T) {
	connectors := []sources.Connector{
		&stubConnector{source: domain.SourceReddit, err: errors.New("rate limited")},
		&stubConnector{
			source: domain.SourceGoogleNews,
			posts:  posts(domain.SourceGoogleNews, "g1", "g2", "g3"),
		},
	}
	agg := aggregator.New(connectors, time.Second, nil, logger.NewNop())

	got := agg.Aggregate(context.Background(), "query", 5)

	require.Len(t, got, 3)
	for _, p := range got {
		assert.Equal(t, domain.SourceGoogleNews, p.Source)
	}
}

func TestAggregate_NotConfiguredIsSkipped(t *testing.T) {
	connectors := []sources.Connector{
		&stubConnector{source: domain.SourceTwitter, err: sources.ErrNotConfigured},
		&stubConnector{source: domain.SourceReddit, posts: posts(domain.SourceReddit, "r1")},
	}
	agg := aggregator.New(connectors, time.Second, nil, logger.NewNop())

	got := agg.Aggregate(context.Background(), "query", 5)

	require.Len(t, got, 1)
	assert.Equal(t, domain.SourceReddit, got[0].Source)
}

func TestAggregate_AllFail(t *testing.T) {
	connectors := []sources.Connector{
		&stubConnector{source: domain.SourceReddit, err: errors.New("boom")},
		&stubConnector{source: domain.SourceGoogleNews, err: errors.New("boom")},
	}
	agg := aggregator.New(connectors, time.Second, nil, logger.NewNop())

	got := agg.Aggregate(context.Background(), "query", 5)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregate_SlowConnectorHitsCeiling(t *testing.T) {
	connectors := []sources.Connector{
		&stubConnector{
			source: domain.SourceReddit,
			posts:  posts(domain.SourceReddit, "never"),
			delay:  time.Second,
		},
		&stubConnector{source: domain.SourceGoogleNews, posts: posts(domain.SourceGoogleNews, "g1")},
	}
	agg := aggregator.New(connectors, 50*time.Millisecond, nil, logger.NewNop())

	start := time.Now()
	got := agg.Aggregate(context.Background(), "query", 5)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	require.Len(t, got, 1)
	assert.Equal(t, "g1", got[0].Text)
}

func TestAggregate_PerSourceLimitApplied(t *testing.T) {
	connectors := []sources.Connector{
		&stubConnector{
			source: domain.SourceReddit,
			posts:  posts(domain.SourceReddit, "r1", "r2", "r3", "r4", "r5"),
		},
	}
	agg := aggregator.New(connectors, time.Second, nil, logger.NewNop())

	got := agg.Aggregate(context.Background(), "query", 2)

	assert.Len(t, got, 2)
}

func TestAggregate_NoConnectors(t *testing.T) {
	agg := aggregator.New(nil, time.Second, nil, logger.NewNop())

	got := agg.Aggregate(context.Background(), "query", 5)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
