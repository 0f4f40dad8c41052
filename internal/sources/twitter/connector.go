// Package twitter implements the Twitter recent-search connector. It is not
// in the default enabled list; add it to sources.enabled once a bearer token
// is provisioned.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonesrussell/veracity/internal/config"
	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/sources"
)

// minSearchResults is the smallest max_results the recent-search API accepts.
const minSearchResults = 10

// Connector searches recent tweets through the v2 API.
type Connector struct {
	cfg     config.TwitterConfig
	client  *http.Client
	timeout time.Duration
}

// searchResponse is the subset of the recent-search response we consume.
type searchResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
}

// New creates a Twitter connector.
func New(cfg config.TwitterConfig, timeout time.Duration) *Connector {
	return &Connector{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Source returns the connector identifier.
func (c *Connector) Source() domain.Source {
	return domain.SourceTwitter
}

// Configured reports whether a bearer token is present.
func (c *Connector) Configured() bool {
	return c.cfg.BearerToken != ""
}

// Fetch searches recent tweets matching query and returns at most limit
// posts in the API's return order.
func (c *Connector) Fetch(ctx context.Context, query string, limit int) ([]domain.SocialPost, error) {
	if !c.Configured() {
		return nil, sources.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	maxResults := limit
	if maxResults < minSearchResults {
		maxResults = minSearchResults
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("tweet.fields", "created_at")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/tweets/search/recent?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("twitter search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter search returned %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode twitter response: %w", err)
	}

	posts := make([]domain.SocialPost, 0, limit)
	for _, tweet := range result.Data {
		if len(posts) >= limit {
			break
		}
		posts = append(posts, domain.SocialPost{
			Text:      tweet.Text,
			URL:       "https://twitter.com/i/web/status/" + tweet.ID,
			Source:    domain.SourceTwitter,
			Published: tweet.CreatedAt,
		})
	}

	return posts, nil
}
