// Package reddit implements the Reddit search connector.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonesrussell/veracity/internal/config"
	"github.com/jonesrussell/veracity/internal/domain"
	"github.com/jonesrussell/veracity/internal/sources"
)

// tokenExpirySlack renews the app token slightly before Reddit expires it.
const tokenExpirySlack = time.Minute

// Connector searches one subreddit through Reddit's OAuth2 application-only
// API. Without client ID, secret, and user agent it short-circuits to
// ErrNotConfigured before any network I/O.
type Connector struct {
	cfg     config.RedditConfig
	client  *http.Client
	timeout time.Duration

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// tokenResponse is the OAuth2 access token grant response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// listing is the subset of Reddit's search listing shape we consume.
type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				URL        string  `json:"url"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// New creates a Reddit connector.
func New(cfg config.RedditConfig, timeout time.Duration) *Connector {
	return &Connector{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Source returns the connector identifier.
func (c *Connector) Source() domain.Source {
	return domain.SourceReddit
}

// Configured reports whether all required credentials are present.
func (c *Connector) Configured() bool {
	return c.cfg.ClientID != "" && c.cfg.ClientSecret != "" && c.cfg.UserAgent != ""
}

// Fetch searches the configured subreddit for query, newest first, and
// returns at most limit posts in the API's return order.
func (c *Connector) Fetch(ctx context.Context, query string, limit int) ([]domain.SocialPost, error) {
	if !c.Configured() {
		return nil, sources.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("reddit auth: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("restrict_sr", "1")
	params.Set("sort", "new")
	params.Set("limit", strconv.Itoa(limit))

	searchURL := fmt.Sprintf("%s/r/%s/search?%s", c.cfg.BaseURL, c.cfg.Subreddit, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("reddit search request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit search returned %d", resp.StatusCode)
	}

	var result listing
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode reddit listing: %w", err)
	}

	posts := make([]domain.SocialPost, 0, limit)
	for _, child := range result.Data.Children {
		if len(posts) >= limit {
			break
		}
		posts = append(posts, domain.SocialPost{
			Text:      child.Data.Title,
			URL:       child.Data.URL,
			Source:    domain.SourceReddit,
			Published: formatCreated(child.Data.CreatedUTC),
		})
	}

	return posts, nil
}

// accessToken returns a cached application-only token, requesting a new one
// when missing or near expiry.
func (c *Connector) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, form)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpirySlack)
	return c.token, nil
}

// formatCreated converts Reddit's epoch-seconds timestamp to RFC3339.
func formatCreated(createdUTC float64) string {
	if createdUTC == 0 {
		return ""
	}
	return time.Unix(int64(createdUTC), 0).UTC().Format(time.RFC3339)
}
