// Package sources defines the connector contract for external content
// sources.
package sources

import (
	"context"
	"errors"

	"github.com/jonesrussell/veracity/internal/domain"
)

// ErrNotConfigured indicates a connector is missing required configuration
// (typically credentials) and short-circuited without network I/O.
var ErrNotConfigured = errors.New("connector not configured")

// Connector fetches candidate posts matching a query from one external
// source. Each connector is a separate failure domain: an error from one
// never affects another, and the aggregator maps errors to empty results.
type Connector interface {
	// Source returns the identifier posts from this connector are tagged with.
	Source() domain.Source
	// Fetch returns at most limit posts matching query, in source order.
	Fetch(ctx context.Context, query string, limit int) ([]domain.SocialPost, error)
}
