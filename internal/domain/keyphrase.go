package domain

// Keyphrase is one candidate phrase returned by the keyphrase extractor,
// ordered by relevance.
type Keyphrase struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}
