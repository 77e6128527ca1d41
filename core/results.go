package core

// Scoring factor names, as reported in ScoreBreakdown.Factors.
const (
	FactorVectorSimilarity = "vector_similarity"
	FactorPrice            = "price_relevance"
	FactorYear             = "year_relevance"
	FactorMileage          = "mileage_relevance"
	FactorKeywordMatch     = "keyword_match"
)

// SearchType names the strategy a search ran with.
type SearchType string

const (
	SearchTypeHybrid     SearchType = "hybrid"
	SearchTypeFilterOnly SearchType = "filter_only"
	SearchTypeVectorOnly SearchType = "vector_only"
)

// ListingView is the part of a listing returned by search.
type ListingView struct {
	Id           ID       `json:"id"`
	Title        string   `json:"title"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Price        float64  `json:"price"`
	Mileage      *int     `json:"mileage"`
	FuelType     string   `json:"fuel_type,omitempty"`
	Transmission string   `json:"transmission,omitempty"`
	BodyType     string   `json:"body_type,omitempty"`
	Location     string   `json:"location,omitempty"`
	Images       []string `json:"images"`
}

// ScoreBreakdown holds the per-factor scores for one candidate, all in
// [0,1], the weighted aggregate and a short explanation.
type ScoreBreakdown struct {
	Score       float64            `json:"score"`
	Factors     map[string]float64 `json:"scoring_factors"`
	Explanation string             `json:"explanation"`
}

// RankedResult pairs a listing with how it scored.
type RankedResult struct {
	ListingView
	ScoreBreakdown
}

// AdvancedMetadata is reported by searches that ran the optional prompt
// preprocessing steps.
type AdvancedMetadata struct {
	SpellCorrected bool     `json:"spell_corrected"`
	QueryExpanded  bool     `json:"query_expanded"`
	ExpandedTerms  []string `json:"expanded_terms"`
}

// SearchMetadata describes which strategies a search actually used.
type SearchMetadata struct {
	SearchType       SearchType `json:"search_type"`
	KeywordsExpanded []string   `json:"keywords_expanded"`
	VectorSearchUsed bool       `json:"vector_search_used"`
	*AdvancedMetadata
}

// SearchResult is the response of a ranked search. Count is the number of
// ranked candidates before truncation to the requested limit.
type SearchResult struct {
	Prompt   string         `json:"prompt"`
	Filters  FilterSet      `json:"filters"`
	Results  []RankedResult `json:"results"`
	Count    int            `json:"count"`
	Metadata SearchMetadata `json:"metadata"`
}

// BasicResult is the response of the plain filter search.
type BasicResult struct {
	Prompt  string        `json:"prompt"`
	Filters FilterSet     `json:"filters"`
	Results []ListingView `json:"results"`
	Count   int           `json:"count"`
}
