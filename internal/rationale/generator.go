// Package rationale derives heuristic explanations for classifier verdicts.
package rationale

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/logger"
)

// Method identifies this heuristic's version in API responses.
const Method = "simple_rationale_v1"

// subwordMarker is the continuation prefix sub-word tokenizers emit.
const subwordMarker = "##"

// minSpanRunes is the minimum candidate length; shorter tokens are mostly
// function words.
const minSpanRunes = 4

// lengthScoreWeight is the per-rune jitter added to the model confidence
// when scoring a span.
const lengthScoreWeight = 0.01

// Tokenizer splits text into sub-word or word tokens.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]string, error)
}

// Generator produces deterministic heuristic explanations. Given identical
// (text, label, confidence) it always returns the same explanation.
type Generator struct {
	tokenizer Tokenizer
	log       logger.Logger
}

// NewGenerator creates a rationale generator. tokenizer may be nil; text is
// then split on whitespace.
func NewGenerator(tokenizer Tokenizer, log logger.Logger) *Generator {
	return &Generator{tokenizer: tokenizer, log: log}
}

// Explain builds the explanation for a verdict. It runs regardless of the
// FAKE/REAL gate and never fails; tokenizer errors degrade to whitespace
// splitting.
func (g *Generator) Explain(ctx context.Context, text string, label domain.Label, confidence float64) domain.Explanation {
	tokens := g.tokens(ctx, text)
	spans := selectSpans(tokens)

	highlights := make([]domain.Highlight, 0, len(spans))
	for _, span := range spans {
		highlights = append(highlights, domain.Highlight{
			Span:  span,
			Score: scoreSpan(span, confidence),
		})
	}

	return domain.Explanation{
		Summary:    fmt.Sprintf("The model predicts this is %s with %.2f confidence.", label, confidence),
		Method:     Method,
		Highlights: highlights,
	}
}

// tokens returns tokenizer output, falling back to whitespace splitting.
func (g *Generator) tokens(ctx context.Context, text string) []string {
	if g.tokenizer == nil {
		return strings.Fields(text)
	}

	tokens, err := g.tokenizer.Tokenize(ctx, text)
	if err != nil {
		g.log.Warn("Tokenizer unavailable, splitting on whitespace",
			logger.Error(err),
		)
		return strings.Fields(text)
	}
	return tokens
}

// selectSpans filters tokens to alphabetic words longer than three runes,
// deduplicates case-insensitively keeping first occurrence, sorts by length
// descending with first-occurrence order breaking ties, and keeps the top 8.
func selectSpans(tokens []string) []string {
	var candidates []string
	seen := make(map[string]bool)

	for _, token := range tokens {
		span := strings.TrimPrefix(token, subwordMarker)
		if !isAlphabetic(span) || utf8.RuneCountInString(span) < minSpanRunes {
			continue
		}
		key := strings.ToLower(span)
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, span)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return utf8.RuneCountInString(candidates[i]) > utf8.RuneCountInString(candidates[j])
	})

	if len(candidates) > domain.MaxHighlights {
		candidates = candidates[:domain.MaxHighlights]
	}
	return candidates
}

// scoreSpan layers a small length-proportional jitter on the model
// confidence, capped at 1.0.
func scoreSpan(span string, confidence float64) float64 {
	score := confidence + lengthScoreWeight*float64(utf8.RuneCountInString(span))
	if score > 1.0 {
		return 1.0
	}
	return score
}

// isAlphabetic reports whether s is non-empty and all letters.
func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
