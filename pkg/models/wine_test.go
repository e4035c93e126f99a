package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingNilSafety(t *testing.T) {
	var r *Rating
	assert.Zero(t, r.Avg())
	assert.Zero(t, r.ReviewsCount())
}

func TestRatingReviewsCount(t *testing.T) {
	tests := []struct {
		reviews  string
		expected int
	}{
		{"1543 ratings", 1543},
		{"25 ratings", 25},
		{"ratings", 0},
		{"", 0},
	}
	for _, tt := range tests {
		r := &Rating{Reviews: tt.reviews}
		assert.Equal(t, tt.expected, r.ReviewsCount(), tt.reviews)
	}
}

func TestIsKnownStyle(t *testing.T) {
	for _, s := range Styles {
		assert.True(t, IsKnownStyle(s))
	}
	assert.False(t, IsKnownStyle("orange"))
	assert.False(t, IsKnownStyle(""))
	assert.False(t, IsKnownStyle("Reds"))
}

func TestItemKeyString(t *testing.T) {
	k := ItemKey{Style: "reds", ID: 42}
	assert.Equal(t, "reds/42", k.String())
}
