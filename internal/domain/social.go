package domain

// Source identifies one external content source.
type Source string

const (
	// SourceReddit is the Reddit forum search connector.
	SourceReddit Source = "reddit"
	// SourceGoogleNews is the Google News RSS search connector.
	SourceGoogleNews Source = "google_news"
	// SourceTwitter is the Twitter post search connector.
	SourceTwitter Source = "twitter"
)

// SocialPost is one corroborating post or headline fetched from an
// external source. Posts live only for the request that fetched them.
type SocialPost struct {
	Text      string `json:"text"`
	URL       string `json:"url"`
	Source    Source `json:"source"`
	Published string `json:"published,omitempty"`
}
