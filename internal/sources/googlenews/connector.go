// Package googlenews implements the Google News RSS search connector.
package googlenews

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/veracity/internal/config"
	"github.com/jonesrussell/veracity/internal/domain"
)

// Connector searches the Google News RSS feed. It holds no mutable state
// across requests beyond its HTTP client.
type Connector struct {
	feedURL string
	parser  *gofeed.Parser
	timeout time.Duration
}

// New creates a Google News connector.
func New(cfg config.GoogleNewsConfig, timeout time.Duration) *Connector {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	return &Connector{
		feedURL: cfg.FeedURL,
		parser:  parser,
		timeout: timeout,
	}
}

// Source returns the connector identifier.
func (c *Connector) Source() domain.Source {
	return domain.SourceGoogleNews
}

// Fetch queries the RSS search feed and returns at most limit headlines in
// feed order.
func (c *Connector) Fetch(ctx context.Context, query string, limit int) ([]domain.SocialPost, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	feedURL := c.feedURL + "?q=" + url.QueryEscape(strings.TrimSpace(query))

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("google news feed: %w", err)
	}

	posts := make([]domain.SocialPost, 0, limit)
	for _, item := range feed.Items {
		if len(posts) >= limit {
			break
		}
		posts = append(posts, domain.SocialPost{
			Text:      item.Title,
			URL:       item.Link,
			Source:    domain.SourceGoogleNews,
			Published: publishedAt(item),
		})
	}

	return posts, nil
}

// publishedAt prefers the parsed timestamp in RFC3339 form, falling back to
// the feed's raw published string.
func publishedAt(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.Format(time.RFC3339)
	}
	return item.Published
}
