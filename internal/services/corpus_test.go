package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"winereco/pkg/models"
)

func TestBuildText(t *testing.T) {
	w := models.Wine{
		Wine:     "Pinot Noir",
		Winery:   "Maison Rouge",
		Location: "France · Burgundy",
	}
	text := BuildText(w)

	assert.Equal(t, strings.ToLower(text), text)
	assert.Equal(t, 6, strings.Count(text, "pinot noir"), "wine name weighted x6")
	assert.Equal(t, 3, strings.Count(text, "maison rouge"), "winery weighted x3")
	assert.Equal(t, 1, strings.Count(text, "burgundy"))
	assert.False(t, strings.HasSuffix(text, " "))
}

func TestBuildText_CountryFallback(t *testing.T) {
	w := models.Wine{Wine: "Tawny", Winery: "Quinta Velha", Country: "Portugal"}
	assert.Contains(t, BuildText(w), "portugal")
}

func TestBuildCorpus_RowAligned(t *testing.T) {
	wines := []models.Wine{
		{Wine: "Barolo", Winery: "Cantina Alta", Location: "Italy"},
		{Wine: "Rioja", Winery: "Bodega Sur", Location: "Spain"},
	}
	corpus := BuildCorpus(wines)
	assert.Len(t, corpus, 2)
	assert.Contains(t, corpus[0], "barolo")
	assert.Contains(t, corpus[1], "rioja")
}

func TestDisplayText(t *testing.T) {
	w := models.Wine{Wine: "Barolo Riserva", Winery: "Cantina Alta", Location: "Italy · Piemonte"}
	text := DisplayText(w)
	assert.Equal(t, "barolo riserva cantina alta italy · piemonte", text)
}
