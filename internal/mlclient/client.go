// Package mlclient is an HTTP client for the ML sidecar that hosts the
// sequence-classification model, its tokenizer, and the keyphrase extractor.
package mlclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonesrussell/veracity/internal/domain"
)

// ErrUnavailable indicates the ML sidecar is unreachable or cannot serve.
var ErrUnavailable = errors.New("ml service unavailable")

const defaultTimeout = 10 * time.Second

// Client is an HTTP client for the ML sidecar. A single Client is built at
// process start and shared read-only by concurrent requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// predictRequest is the request body for POST /predict.
type predictRequest struct {
	Text string `json:"text"`
}

// predictResponse is the response body from POST /predict.
type predictResponse struct {
	Label        string    `json:"label"`
	Confidence   float64   `json:"confidence"`
	Probs        []float64 `json:"probs"`
	ModelVersion string    `json:"model_version"`
}

// tokenizeResponse is the response body from POST /tokenize.
type tokenizeResponse struct {
	Tokens []string `json:"tokens"`
}

// keyphrasesRequest is the request body for POST /keyphrases.
type keyphrasesRequest struct {
	Text     string `json:"text"`
	NgramMin int    `json:"ngram_min"`
	NgramMax int    `json:"ngram_max"`
	TopN     int    `json:"top_n"`
}

// keyphrasesResponse is the response body from POST /keyphrases.
type keyphrasesResponse struct {
	Keyphrases []domain.Keyphrase `json:"keyphrases"`
}

// NewClient creates a new ML sidecar client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Predict classifies text, returning the label, confidence, and the
// (P(FAKE), P(REAL)) probability pair. Any transport or decode failure is
// wrapped in ErrUnavailable; the caller must surface it, never default a label.
func (c *Client) Predict(ctx context.Context, text string) (*domain.ClassificationResult, error) {
	var resp predictResponse
	if err := c.doPost(ctx, "/predict", &predictRequest{Text: text}, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	result := &domain.ClassificationResult{
		Label:         domain.Label(resp.Label),
		Confidence:    resp.Confidence,
		Probabilities: resp.Probs,
		ModelVersion:  resp.ModelVersion,
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid prediction: %w", ErrUnavailable, err)
	}
	return result, nil
}

// Tokenize returns the model tokenizer's sub-word tokens for text.
func (c *Client) Tokenize(ctx context.Context, text string) ([]string, error) {
	var resp tokenizeResponse
	if err := c.doPost(ctx, "/tokenize", &predictRequest{Text: text}, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp.Tokens, nil
}

// TopPhrases extracts the topN most relevant keyphrases of ngramMin..ngramMax
// words from text, ordered by relevance score.
func (c *Client) TopPhrases(ctx context.Context, text string, ngramMin, ngramMax, topN int) ([]domain.Keyphrase, error) {
	req := &keyphrasesRequest{Text: text, NgramMin: ngramMin, NgramMax: ngramMax, TopN: topN}
	var resp keyphrasesResponse
	if err := c.doPost(ctx, "/keyphrases", req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp.Keyphrases, nil
}

// Health checks the ML sidecar, returning reachability, latency, and the
// loaded model version.
func (c *Client) Health(ctx context.Context) (reachable bool, latencyMs int64, modelVersion string, err error) {
	reachable, latencyMs, modelVersion, err = c.doHealth(ctx)
	if err != nil {
		if !reachable {
			return reachable, latencyMs, modelVersion, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return reachable, latencyMs, modelVersion, err
	}
	return reachable, latencyMs, modelVersion, nil
}
