package domain

// MaxHighlights bounds the highlights carried by an explanation.
const MaxHighlights = 8

// Highlight is one scored span from the input text.
type Highlight struct {
	Span  string  `json:"span"`
	Score float64 `json:"score"`
}

// Explanation is the heuristic rationale for a verdict. Method names the
// heuristic version so API consumers can distinguish future algorithms.
type Explanation struct {
	Summary    string      `json:"summary"`
	Method     string      `json:"method"`
	Highlights []Highlight `json:"highlights"`
}
