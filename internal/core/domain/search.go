package domain

// DefaultSearchLimit is the number of hits returned when no limit is given.
const DefaultSearchLimit = 5

// SearchOptions configures a policy search.
type SearchOptions struct {
	// Limit is the maximum number of hits (k). Values < 1 use DefaultSearchLimit.
	Limit int
}

// EffectiveLimit returns the limit with the default applied.
func (o SearchOptions) EffectiveLimit() int {
	if o.Limit < 1 {
		return DefaultSearchLimit
	}
	return o.Limit
}

// Hit is a read-only projection of a Chunk plus its weighted score.
// Hits are produced fresh per search call and never stored.
type Hit struct {
	Chunk

	// Score is the cosine similarity multiplied by the chunk weight.
	Score float64 `json:"score"`
}
