// Package orchestrator runs the per-request pipeline: classify the input,
// derive a rationale, and, for non-FAKE verdicts, fetch corroborating
// social context.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/logger"
	"github.com/jonesrussell/veracity/internal/telemetry"
)

// ErrEmptyText indicates the request carried no usable text. It is
// rejected before any collaborator is invoked.
var ErrEmptyText = errors.New("text must not be empty")

// Classifier is the classification gateway contract.
type Classifier interface {
	Predict(ctx context.Context, text string) (*domain.ClassificationResult, error)
}

// Cache is the optional classification cache contract.
type Cache interface {
	Get(ctx context.Context, text string) (*domain.ClassificationResult, error)
	Set(ctx context.Context, text string, result *domain.ClassificationResult) error
}

// QueryBuilder derives a search query from input text.
type QueryBuilder interface {
	Build(ctx context.Context, text string) string
}

// Explainer derives a heuristic rationale for a verdict.
type Explainer interface {
	Explain(ctx context.Context, text string, label domain.Label, confidence float64) domain.Explanation
}

// ContextAggregator fetches corroborating posts for a query.
type ContextAggregator interface {
	Aggregate(ctx context.Context, query string, perSourceLimit int) []domain.SocialPost
}

// Orchestrator wires the pipeline components. All collaborators are built
// once at process start and shared read-only by concurrent requests.
type Orchestrator struct {
	classifier     Classifier
	cache          Cache
	queries        QueryBuilder
	explainer      Explainer
	aggregator     ContextAggregator
	perSourceLimit int
	metrics        *telemetry.Metrics
	log            logger.Logger
}

// New creates an orchestrator.
func New(
	classifier Classifier,
	queries QueryBuilder,
	explainer Explainer,
	aggregator ContextAggregator,
	perSourceLimit int,
	metrics *telemetry.Metrics,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		classifier:     classifier,
		queries:        queries,
		explainer:      explainer,
		aggregator:     aggregator,
		perSourceLimit: perSourceLimit,
		metrics:        metrics,
		log:            log,
	}
}

// WithCache attaches a classification cache.
func (o *Orchestrator) WithCache(c Cache) *Orchestrator {
	o.cache = c
	return o
}

// Check runs the full pipeline for one input. The rationale always runs;
// context aggregation runs only for non-FAKE verdicts. The two have no data
// dependency on each other and run concurrently. Only classification
// failure (wrapping mlclient.ErrUnavailable) and empty input are surfaced
// as errors; everything downstream degrades gracefully.
func (o *Orchestrator) Check(ctx context.Context, text string) (*domain.AggregatedResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	classification, err := o.classify(ctx, text)
	if err != nil {
		return nil, err
	}

	var (
		explanation domain.Explanation
		posts       []domain.SocialPost
		searchTerm  string
		wg          sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		explanation = o.explainer.Explain(ctx, text, classification.Label, classification.Confidence)
	}()

	if classification.Label == domain.LabelFake {
		// Context is corroboration for likely-true claims, not material
		// to contextualize falsehoods.
		o.metrics.RecordGated()
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			searchTerm = o.queries.Build(ctx, text)
			posts = o.aggregator.Aggregate(ctx, searchTerm, o.perSourceLimit)
		}()
	}

	wg.Wait()

	return Assemble(classification, explanation, posts, searchTerm), nil
}

// classify resolves the verdict, consulting the cache when configured.
// Cache failures are logged and ignored; they must never fail a request.
func (o *Orchestrator) classify(ctx context.Context, text string) (*domain.ClassificationResult, error) {
	if o.cache != nil {
		cached, err := o.cache.Get(ctx, text)
		if err != nil {
			o.log.Warn("Classification cache read failed", logger.Error(err))
		}
		if cached != nil {
			o.metrics.RecordCache(true)
			return cached, nil
		}
		o.metrics.RecordCache(false)
	}

	start := time.Now()
	result, err := o.classifier.Predict(ctx, text)
	o.metrics.RecordClassification(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	if o.cache != nil {
		if err := o.cache.Set(ctx, text, result); err != nil {
			o.log.Warn("Classification cache write failed", logger.Error(err))
		}
	}

	return result, nil
}
