package models

import "time"

// ScoredItem is one engine result: an item key plus its adjusted score.
type ScoredItem struct {
	Key   ItemKey `json:"key"`
	Score float64 `json:"score"`
	Row   int     `json:"-"`
}

// Recommendation is a scored item joined with its catalog fields for display.
type Recommendation struct {
	Key     ItemKey `json:"key"`
	Score   float64 `json:"score"`
	Wine    string  `json:"wine"`
	Winery  string  `json:"winery,omitempty"`
	Country string  `json:"country,omitempty"`
	Image   string  `json:"image,omitempty"`
}

// QueryResponse is the payload of the raw-similarity query endpoint.
type QueryResponse struct {
	Query       string       `json:"query"`
	Style       string       `json:"style"`
	TopK        []ScoredItem `json:"top_k"`
	GeneratedAt time.Time    `json:"generated_at"`
	CacheHit    bool         `json:"cache_hit"`
}

// ProfileRequest is the body of the preference-aware recommendation endpoint.
type ProfileRequest struct {
	Style   string      `json:"style" validate:"omitempty,oneof=all reds whites sparkling rose dessert port"`
	K       int         `json:"k" validate:"omitempty,min=1,max=100"`
	Profile UserProfile `json:"profile" validate:"required"`
}

// ProfileResponse is the payload of the preference-aware endpoint.
type ProfileResponse struct {
	UserID          string           `json:"user_id"`
	Style           string           `json:"style"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// ArtifactMeta describes a fitted embedding bundle.
type ArtifactMeta struct {
	Style  string   `json:"style"`
	Rows   int      `json:"rows"`
	Dims   int      `json:"dims"`
	Styles []string `json:"styles,omitempty"`
}

// EvalRow holds per-user evaluation metrics.
type EvalRow struct {
	UserID      string  `json:"user_id"`
	RecoCount   int     `json:"reco_count"`
	HitAtK      int     `json:"hit_at_k"`
	TermsHitAtK float64 `json:"terms_hit_at_k"`
	CountryHit  float64 `json:"country_hit_at_k"`
	ILS         float64 `json:"ils_at_k"`
	Diversity   float64 `json:"diversity_at_k"`
}

// EvalSummary aggregates EvalRows as plain means.
type EvalSummary struct {
	Users         int     `json:"users"`
	K             int     `json:"k"`
	Styles        string  `json:"styles"`
	AvgHitAtK     float64 `json:"avg_hit_at_k"`
	AvgTermsHit   float64 `json:"avg_terms_hit_at_k"`
	AvgCountryHit float64 `json:"avg_country_hit_at_k"`
	AvgDiversity  float64 `json:"avg_diversity_at_k"`
}
