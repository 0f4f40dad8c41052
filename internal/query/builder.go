// Package query derives compact search queries from input text.
package query

import (
	"context"
	"strings"

	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/logger"
)

// Short headlines are specific enough to search verbatim; only longer text
// goes through keyphrase extraction.
const shortTextWordLimit = 12

// Keyphrase extraction parameters: 1-2 word phrases, top 3 by relevance.
const (
	ngramMin   = 1
	ngramMax   = 2
	topPhrases = 3
)

// Extractor extracts the topN most relevant keyphrases from text.
// The extractor applies English stop-word removal on its side.
type Extractor interface {
	TopPhrases(ctx context.Context, text string, ngramMin, ngramMax, topN int) ([]domain.Keyphrase, error)
}

// Builder derives search queries. It never fails: when the extractor is
// absent or errors, it degrades to returning the text verbatim.
type Builder struct {
	extractor Extractor
	log       logger.Logger
}

// NewBuilder creates a query builder. extractor may be nil.
func NewBuilder(extractor Extractor, log logger.Logger) *Builder {
	return &Builder{extractor: extractor, log: log}
}

// Build returns the search query for text. Text of at most 12 words is
// returned unchanged. Longer text is reduced to its top keyphrases,
// preferring multi-word phrases, joined by single spaces.
func (b *Builder) Build(ctx context.Context, text string) string {
	words := strings.Fields(text)
	if len(words) <= shortTextWordLimit {
		return text
	}

	if b.extractor == nil {
		return text
	}

	phrases, err := b.extractor.TopPhrases(ctx, text, ngramMin, ngramMax, topPhrases)
	if err != nil {
		b.log.Warn("Keyphrase extraction failed, using verbatim text",
			logger.Error(err),
		)
		return text
	}
	if len(phrases) == 0 {
		return text
	}

	selected := multiWordPhrases(phrases)
	if len(selected) == 0 {
		selected = allPhrases(phrases)
	}

	return strings.Join(selected, " ")
}

// multiWordPhrases returns the phrases of at least two words, in order.
func multiWordPhrases(phrases []domain.Keyphrase) []string {
	var out []string
	for _, p := range phrases {
		if len(strings.Fields(p.Phrase)) >= 2 {
			out = append(out, p.Phrase)
		}
	}
	return out
}

// allPhrases returns every phrase, in order.
func allPhrases(phrases []domain.Keyphrase) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, p.Phrase)
	}
	return out
}
