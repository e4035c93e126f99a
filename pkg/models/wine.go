package models

import (
	"fmt"
	"regexp"
	"strconv"
)

// Styles is the set of catalog partitions served by the upstream API.
var Styles = []string{"reds", "whites", "sparkling", "rose", "dessert", "port"}

// DefaultStyles are the styles fetched when none are requested explicitly.
var DefaultStyles = []string{"reds", "whites", "sparkling", "rose", "port"}

// IsKnownStyle reports whether s is one of the catalog styles.
func IsKnownStyle(s string) bool {
	for _, known := range Styles {
		if s == known {
			return true
		}
	}
	return false
}

// Rating carries the upstream score summary. Reviews is free text such as
// "1543 ratings"; the numeric count is extracted on demand.
type Rating struct {
	Average float64 `json:"average"`
	Reviews string  `json:"reviews"`
}

var digits = regexp.MustCompile(`\d+`)

// Avg returns the average rating, 0 for a missing rating. Nil-safe.
func (r *Rating) Avg() float64 {
	if r == nil {
		return 0
	}
	return r.Average
}

// ReviewsCount extracts the first run of digits from the free-text review
// field ("1543 ratings" -> 1543), 0 when absent. Nil-safe.
func (r *Rating) ReviewsCount() int {
	if r == nil {
		return 0
	}
	m := digits.FindString(r.Reviews)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// Wine is a validated catalog item. Immutable once it leaves validation.
type Wine struct {
	ID       int     `json:"id" validate:"required,gt=0"`
	Wine     string  `json:"wine" validate:"required"`
	Winery   string  `json:"winery"`
	Location string  `json:"location"`
	Image    string  `json:"image" validate:"omitempty,url"`
	Rating   *Rating `json:"rating,omitempty"`
	Style    string  `json:"style" validate:"required,oneof=reds whites sparkling rose dessert port"`
	Country  string  `json:"country,omitempty"`
}

// ItemKey identifies an item across styles. Keys lists index-align 1:1 with
// embedding matrix rows.
type ItemKey struct {
	Style string `json:"style"`
	ID    int    `json:"id"`
}

func (k ItemKey) String() string {
	return fmt.Sprintf("%s/%d", k.Style, k.ID)
}
