// Package services contains the recommendation pipeline's domain logic: the
// corpus builder, the preference engine, the evaluator, the model cache, the
// user synthesizer and the serving-side recommendation service.
package services

import (
	"strings"

	"winereco/pkg/models"
)

// BuildText composes the weighted text blob for one item: wine name x6,
// winery x3, location (or country fallback) x1, lowercased and trimmed. The
// same composition is used at fit time and at query time.
func BuildText(w models.Wine) string {
	loc := w.Location
	if loc == "" {
		loc = w.Country
	}
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteString(w.Wine)
		b.WriteByte(' ')
	}
	for i := 0; i < 3; i++ {
		b.WriteString(w.Winery)
		b.WriteByte(' ')
	}
	b.WriteString(loc)
	return strings.ToLower(strings.TrimSpace(b.String()))
}

// BuildCorpus maps a validated frame to its corpus, row-aligned with the
// frame order.
func BuildCorpus(wines []models.Wine) []string {
	corpus := make([]string, len(wines))
	for i, w := range wines {
		corpus[i] = BuildText(w)
	}
	return corpus
}

// DisplayText is the composed text used for term matching against
// recommendation cards: name, winery and location, lowercased.
func DisplayText(w models.Wine) string {
	return strings.ToLower(strings.TrimSpace(w.Wine + " " + w.Winery + " " + w.Location))
}
