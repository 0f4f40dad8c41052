package api

import (
	"time"

	"github.com/jonesrussell/veracity/internal/domain"
)

// PredictRequest is the body for POST /predict_explain.
type PredictRequest struct {
	Text string `json:"text"`
}

// HighlightResponse is one scored rationale span.
type HighlightResponse struct {
	Span  string  `json:"span"`
	Score float64 `json:"score"`
}

// ExplanationResponse is the rationale portion of a prediction response.
type ExplanationResponse struct {
	Summary    string              `json:"summary"`
	Method     string              `json:"method"`
	Highlights []HighlightResponse `json:"highlights"`
}

// SocialPostResponse is one corroborating post.
type SocialPostResponse struct {
	Text      string `json:"text"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Published string `json:"published,omitempty"`
}

// PredictResponse is the response body for POST /predict_explain.
type PredictResponse struct {
	Label         string               `json:"label"`
	Confidence    float64              `json:"confidence"`
	Probs         []float64            `json:"probs"`
	Explanation   ExplanationResponse  `json:"explanation"`
	SocialContext []SocialPostResponse `json:"social_context"`
	SearchTerm    string               `json:"search_term,omitempty"`
}

// MLHealthResponse is the ML sidecar health detail.
type MLHealthResponse struct {
	Reachable    bool      `json:"reachable"`
	LatencyMs    int64     `json:"latency_ms"`
	ModelVersion string    `json:"model_version,omitempty"`
	LastChecked  time.Time `json:"last_checked"`
	Error        string    `json:"error,omitempty"`
}

// toPredictResponse converts a domain response to the API shape.
func toPredictResponse(resp *domain.AggregatedResponse) PredictResponse {
	highlights := make([]HighlightResponse, 0, len(resp.Explanation.Highlights))
	for _, h := range resp.Explanation.Highlights {
		highlights = append(highlights, HighlightResponse{Span: h.Span, Score: h.Score})
	}

	posts := make([]SocialPostResponse, 0, len(resp.SocialContext))
	for _, p := range resp.SocialContext {
		posts = append(posts, SocialPostResponse{
			Text:      p.Text,
			URL:       p.URL,
			Source:    string(p.Source),
			Published: p.Published,
		})
	}

	return PredictResponse{
		Label:      string(resp.Classification.Label),
		Confidence: resp.Classification.Confidence,
		Probs:      resp.Classification.Probabilities,
		Explanation: ExplanationResponse{
			Summary:    resp.Explanation.Summary,
			Method:     resp.Explanation.Method,
			Highlights: highlights,
		},
		SocialContext: posts,
		SearchTerm:    resp.SearchTerm,
	}
}
