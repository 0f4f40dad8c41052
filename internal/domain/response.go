package domain

// AggregatedResponse is the complete result of one request: the verdict,
// its rationale, and any corroborating social context. SocialContext is
// empty when the verdict is FAKE or every connector failed. SearchTerm is
// the derived query, set only when context fetching ran.
type AggregatedResponse struct {
	Classification ClassificationResult `json:"classification"`
	Explanation    Explanation          `json:"explanation"`
	SocialContext  []SocialPost         `json:"social_context"`
	SearchTerm     string               `json:"search_term,omitempty"`
}
