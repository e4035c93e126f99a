package services

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"winereco/internal/text"
	"winereco/pkg/models"
)

// SynthesizerOptions tune synthetic profile generation. Zero values fall
// back to the defaults used for evaluation panels.
type SynthesizerOptions struct {
	N             int
	Seed          int64
	PPrefStyle    float64
	PAvoidStyle   float64
	PAvoidCountry float64
	MinTerms      int
}

func (o *SynthesizerOptions) applyDefaults() {
	if o.N == 0 {
		o.N = 30
	}
	if o.PPrefStyle == 0 {
		o.PPrefStyle = 0.7
	}
	if o.PAvoidStyle == 0 {
		o.PAvoidStyle = 0.3
	}
	if o.PAvoidCountry == 0 {
		o.PAvoidCountry = 0.2
	}
	if o.MinTerms < 2 {
		o.MinTerms = 2
	}
}

// UserSynthesizer generates synthetic preference profiles from observed item
// metadata distributions. Generation is fully determined by the seed.
type UserSynthesizer struct {
	logger *logrus.Logger
}

func NewUserSynthesizer(logger *logrus.Logger) *UserSynthesizer {
	return &UserSynthesizer{logger: logger}
}

type counted struct {
	value string
	count int
}

// mostCommon returns values by descending count, ties broken alphabetically
// so a fixed seed always yields the same panel.
func mostCommon(counts map[string]int, limit int) []counted {
	out := make([]counted, 0, len(counts))
	for v, c := range counts {
		if v != "" {
			out = append(out, counted{v, c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].value < out[j].value
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Generate builds N profiles from the combined validated frames. Preferred
// countries are sampled by catalog supply with one of the top-5 countries
// always included; terms are drawn from the keyword distribution with
// countries excluded.
func (s *UserSynthesizer) Generate(wines []models.Wine, styles []string, opts SynthesizerOptions) []models.UserProfile {
	opts.applyDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	countryCounts := make(map[string]int)
	termCounts := make(map[string]int)
	for _, w := range wines {
		if c := text.CanonicalCountry(w.Country); c != "" {
			countryCounts[c]++
		}
		blob := w.Wine + " " + w.Winery + " " + w.Location
		for _, t := range text.ExtractTerms(blob, 8, false) {
			termCounts[t]++
		}
	}

	topTerms := mostCommon(termCounts, 200)
	popCountries := mostCommon(countryCounts, 50)
	top5 := mostCommon(countryCounts, 5)

	s.logger.WithFields(logrus.Fields{
		"countries": len(countryCounts),
		"terms":     len(termCounts),
		"users":     opts.N,
	}).Info("Synthesizing user panel")

	users := make([]models.UserProfile, 0, opts.N)
	for i := 0; i < opts.N; i++ {
		u := models.UserProfile{UserID: fmt.Sprintf("u%02d", i+1)}

		u.Terms = s.sampleTerms(rng, topTerms, opts.MinTerms)

		if rng.Float64() < opts.PPrefStyle {
			k := min(2, max(1, len(styles)/3))
			u.PreferredStyles = sampleStrings(rng, styles, k)
		}
		remaining := difference(styles, u.PreferredStyles)
		if len(remaining) > 0 && rng.Float64() < opts.PAvoidStyle {
			u.AvoidStyles = sampleStrings(rng, remaining, 1)
		}

		u.PreferCountries = s.sampleCountries(rng, popCountries, top5)
		if len(popCountries) > 0 && rng.Float64() < opts.PAvoidCountry {
			avoidPool := filterCounted(popCountries, u.PreferCountries)
			if len(avoidPool) > 0 {
				u.AvoidCountries = []string{weightedChoice(rng, avoidPool)}
			}
		}

		u.MinRating = pickFloat(rng, []float64{0, 4.0, 4.2})
		u.MinReviews = pickInt(rng, []int{0, 5, 10})
		u.Adventurous = pickFloat(rng, []float64{0.2, 0.5, 0.8})

		users = append(users, u)
	}
	return users
}

func (s *UserSynthesizer) sampleTerms(rng *rand.Rand, top []counted, k int) []string {
	pool := make([]string, len(top))
	for i, c := range top {
		pool[i] = c.value
	}
	var picked []string
	if len(pool) >= k {
		for _, idx := range rng.Perm(len(pool))[:k] {
			picked = append(picked, pool[idx])
		}
	} else {
		picked = append(picked, pool...)
	}
	picked = text.CleanTerms(picked, k, false)
	// Backfill from the head of the distribution when cleaning shrank the
	// sample below the minimum.
	for _, c := range top {
		if len(picked) >= k {
			break
		}
		if !containsString(picked, c.value) {
			picked = append(picked, c.value)
		}
	}
	return picked
}

// sampleCountries draws 2 or 3 preferred countries: one from the top-5 by
// supply weight, the rest as a weighted sample without replacement.
func (s *UserSynthesizer) sampleCountries(rng *rand.Rand, pop, top5 []counted) []string {
	if len(pop) == 0 {
		return nil
	}
	m := 2
	if len(pop) >= 3 && rng.Float64() < 0.3 {
		m = 3
	}
	var picked []string
	if len(top5) > 0 {
		picked = append(picked, weightedChoice(rng, top5))
	}
	for len(picked) < m {
		pool := filterCounted(pop, picked)
		if len(pool) == 0 {
			break
		}
		picked = append(picked, weightedChoice(rng, pool))
	}
	return picked
}

// weightedChoice picks one value with probability proportional to its count.
func weightedChoice(rng *rand.Rand, pool []counted) string {
	total := 0
	for _, c := range pool {
		total += c.count
	}
	if total <= 0 {
		return pool[rng.Intn(len(pool))].value
	}
	r := rng.Intn(total)
	for _, c := range pool {
		r -= c.count
		if r < 0 {
			return c.value
		}
	}
	return pool[len(pool)-1].value
}

func filterCounted(pool []counted, exclude []string) []counted {
	out := make([]counted, 0, len(pool))
	for _, c := range pool {
		if !containsString(exclude, c.value) {
			out = append(out, c)
		}
	}
	return out
}

func sampleStrings(rng *rand.Rand, pool []string, k int) []string {
	if k >= len(pool) {
		return append([]string(nil), pool...)
	}
	out := make([]string, 0, k)
	for _, idx := range rng.Perm(len(pool))[:k] {
		out = append(out, pool[idx])
	}
	return out
}

func difference(all, minus []string) []string {
	var out []string
	for _, s := range all {
		if !containsString(minus, s) {
			out = append(out, s)
		}
	}
	return out
}

func containsString(xs []string, v string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}

func pickFloat(rng *rand.Rand, xs []float64) float64 { return xs[rng.Intn(len(xs))] }
func pickInt(rng *rand.Rand, xs []int) int           { return xs[rng.Intn(len(xs))] }
