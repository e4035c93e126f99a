package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winereco/pkg/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestWriteRecommendations(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, quietLogger())

	sections := []UserSection{
		{
			UserID:      "u01",
			Terms:       "pinot, noir",
			StylesLabel: "reds",
			K:           2,
			Cards: []Card{
				{Wine: "Pinot Noir Reserve", Winery: "Maison Rouge", Country: "France", Style: "reds"},
				{Wine: "Barolo <Riserva>", Winery: "Cantina Alta", Country: "Italy", Style: "reds"},
			},
		},
	}

	path, err := w.WriteRecommendations("reds", sections, "")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Recommendations for u01")
	assert.Contains(t, string(html), "Pinot Noir Reserve")
	assert.Contains(t, string(html), "&lt;Riserva&gt;", "markup in item names is escaped")
	assert.NotContains(t, string(html), "<Riserva>")
}

func TestWriteRecommendations_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, quietLogger())

	out := filepath.Join(dir, "nested", "custom.html")
	path, err := w.WriteRecommendations("all", nil, out)
	require.NoError(t, err)
	assert.Equal(t, out, path)
	assert.FileExists(t, out)
}

func TestWriteEvaluation(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, quietLogger())

	rows := []models.EvalRow{
		{UserID: "u01", RecoCount: 5, HitAtK: 1, TermsHitAtK: 0.6, CountryHit: 0.4, ILS: 0.2, Diversity: 0.8},
		{UserID: "u02", RecoCount: 5, HitAtK: 0, TermsHitAtK: 0, CountryHit: 0, ILS: 0.5, Diversity: 0.5},
	}
	summary := models.EvalSummary{
		Users: 2, K: 5, Styles: "reds, whites",
		AvgHitAtK: 0.5, AvgTermsHit: 0.3, AvgCountryHit: 0.2, AvgDiversity: 0.65,
	}

	csvPath, htmlPath, err := w.WriteEvaluation(rows, summary)
	require.NoError(t, err)

	csvData, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "user_id,reco_count,hit@k")
	assert.Contains(t, string(csvData), "u01,5,1,0.600,0.400,0.200,0.800")

	htmlData, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(htmlData), "K=5")
	assert.Contains(t, string(htmlData), "u02")
}
