package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winereco/pkg/models"
)

func synthWines() []models.Wine {
	wines := make([]models.Wine, 0, 24)
	seeds := []struct {
		wine, winery, country string
		style                 string
	}{
		{"Pinot Noir Reserve", "Maison Rouge", "France", "reds"},
		{"Cabernet Sauvignon", "Villa Toscana", "Italy", "reds"},
		{"Malbec Alta", "Bodega Sur", "Argentina", "reds"},
		{"Chardonnay Estate", "Golden Hills", "United States", "whites"},
		{"Riesling Kabinett", "Weingut Stein", "Germany", "whites"},
		{"Albarino Atlantico", "Pazo Verde", "Spain", "whites"},
	}
	id := 1
	for round := 0; round < 4; round++ {
		for _, s := range seeds {
			wines = append(wines, models.Wine{
				ID: id, Wine: s.wine, Winery: s.winery,
				Location: s.country, Country: s.country, Style: s.style,
			})
			id++
		}
	}
	return wines
}

func TestSynthesizerGenerate(t *testing.T) {
	synth := NewUserSynthesizer(testLogger())
	styles := []string{"reds", "whites"}

	users := synth.Generate(synthWines(), styles, SynthesizerOptions{N: 10, Seed: 42})
	require.Len(t, users, 10)

	for i, u := range users {
		assert.NotEmpty(t, u.UserID)
		assert.GreaterOrEqual(t, len(u.Terms), 2, "user %d needs at least two terms", i)
		assert.NotEmpty(t, u.PreferCountries, "user %d samples preferred countries", i)
		assert.LessOrEqual(t, len(u.PreferCountries), 3)
		assert.Contains(t, []float64{0, 4.0, 4.2}, u.MinRating)
		assert.Contains(t, []int{0, 5, 10}, u.MinReviews)
		assert.Contains(t, []float64{0.2, 0.5, 0.8}, u.Adventurous)

		for _, c := range u.AvoidCountries {
			assert.NotContains(t, u.PreferCountries, c, "avoided countries never overlap preferred")
		}
		for _, s := range u.AvoidStyles {
			assert.NotContains(t, u.PreferredStyles, s, "avoided styles never overlap preferred")
		}
	}

	assert.Equal(t, "u01", users[0].UserID)
	assert.Equal(t, "u10", users[9].UserID)
}

func TestSynthesizerGenerate_SeedDeterminism(t *testing.T) {
	synth := NewUserSynthesizer(testLogger())
	styles := []string{"reds", "whites"}
	wines := synthWines()

	first := synth.Generate(wines, styles, SynthesizerOptions{N: 20, Seed: 7})
	second := synth.Generate(wines, styles, SynthesizerOptions{N: 20, Seed: 7})
	assert.Equal(t, first, second, "a fixed seed yields a fixed panel")
}

func TestMostCommon(t *testing.T) {
	counts := map[string]int{"france": 5, "italy": 5, "spain": 2, "": 9}

	out := mostCommon(counts, 0)
	require.Len(t, out, 3, "empty values are dropped")
	// Ties break alphabetically so output is stable.
	assert.Equal(t, "france", out[0].value)
	assert.Equal(t, "italy", out[1].value)
	assert.Equal(t, "spain", out[2].value)

	assert.Len(t, mostCommon(counts, 2), 2)
}
