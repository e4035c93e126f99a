package models

// UserProfile holds a user's text-based wine preferences. Every field is
// optional; a zero value means "no effect". Profiles are supplied per request
// and never mutated by the recommendation engine.
type UserProfile struct {
	UserID          string   `json:"user_id" validate:"required"`
	Terms           []string `json:"terms,omitempty"`
	AvoidTerms      []string `json:"avoid_terms,omitempty"`
	PreferredStyles []string `json:"preferred_styles,omitempty" validate:"dive,oneof=reds whites sparkling rose dessert port"`
	AvoidStyles     []string `json:"avoid_styles,omitempty" validate:"dive,oneof=reds whites sparkling rose dessert port"`
	PreferCountries []string `json:"prefer_countries,omitempty"`
	AvoidCountries  []string `json:"avoid_countries,omitempty"`
	PreferWineries  []string `json:"prefer_wineries,omitempty"`
	AvoidWineries   []string `json:"avoid_wineries,omitempty"`
	MinRating       float64  `json:"min_rating,omitempty" validate:"gte=0,lte=5"`
	MinReviews      int      `json:"min_reviews,omitempty" validate:"gte=0"`

	// Adventurous is carried for profile-file compatibility; the engine's
	// soft-preference scheme does not consume it.
	Adventurous float64 `json:"adventurous,omitempty" validate:"gte=0,lte=1"`
}
