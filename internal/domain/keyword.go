package domain

// Keyword is a descriptive tag derived from a venue's analysis blob.
// IsPreferred marks tags that intersect the caller's preferred-keyword set.
type Keyword struct {
	Keyword     string  `json:"keyword"`
	Type        string  `json:"type"`
	IsPreferred bool    `json:"is_preferred"`
	Relevance   float64 `json:"relevance_score"`
}
