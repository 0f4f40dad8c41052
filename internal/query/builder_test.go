package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/logger"
	"github.com/jonesrussell/veracity/internal/query"
)

// stubExtractor returns canned keyphrases or a canned error.
type stubExtractor struct {
	phrases []domain.Keyphrase
	err     error
	calls   int
}

func (s *stubExtractor) TopPhrases(_ context.Context, _ string, _, _, _ int) ([]domain.Keyphrase, error) {
	s.calls++
	return s.phrases, s.err
}

const longText = "city council approves new downtown transit plan after months of " +
	"heated public debate over funding and neighbourhood impact concerns"

func TestBuild_ShortTextReturnedVerbatim(t *testing.T) {
	extractor := &stubExtractor{}
	builder := query.NewBuilder(extractor, logger.NewNop())

	tests := []struct {
		name string
		text string
	}{
		{"headline", "Mayor announces new transit plan"},
		{"exactly twelve words", "one two three four five six seven eight nine ten eleven twelve"},
		{"single word", "breaking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := builder.Build(context.Background(), tt.text)
			assert.Equal(t, tt.text, got)
		})
	}

	assert.Zero(t, extractor.calls, "short text must not hit the extractor")
}

func TestBuild_LongTextUsesMultiWordPhrases(t *testing.T) {
	extractor := &stubExtractor{
		phrases: []domain.Keyphrase{
			{Phrase: "transit plan", Score: 0.9},
			{Phrase: "downtown", Score: 0.8},
			{Phrase: "public debate", Score: 0.7},
		},
	}
	builder := query.NewBuilder(extractor, logger.NewNop())

	got := builder.Build(context.Background(), longText)

	// Single-word phrases drop out when any multi-word phrase exists.
	assert.Equal(t, "transit plan public debate", got)
	assert.Equal(t, 1, extractor.calls)
}

func TestBuild_LongTextFallsBackToAllPhrases(t *testing.T) {
	extractor := &stubExtractor{
		phrases: []domain.Keyphrase{
			{Phrase: "transit", Score: 0.9},
			{Phrase: "council", Score: 0.8},
			{Phrase: "funding", Score: 0.7},
		},
	}
	builder := query.NewBuilder(extractor, logger.NewNop())

	got := builder.Build(context.Background(), longText)

	assert.Equal(t, "transit council funding", got)
}

func TestBuild_DegradesToVerbatim(t *testing.T) {
	tests := []struct {
		name      string
		extractor query.Extractor
	}{
		{"nil extractor", nil},
		{"extractor error", &stubExtractor{err: errors.New("connection refused")}},
		{"no phrases", &stubExtractor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := query.NewBuilder(tt.extractor, logger.NewNop())
			got := builder.Build(context.Background(), longText)
			assert.Equal(t, longText, got)
		})
	}
}
