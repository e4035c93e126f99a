package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winereco/pkg/models"
)

func fitTestBundle(t *testing.T, style string) *Bundle {
	t.Helper()
	corpus := []string{
		"pinot noir burgundy",
		"chardonnay burgundy",
		"riesling mosel",
	}
	vec, matrix, err := FitTFIDF(corpus, 1, 2, 1)
	require.NoError(t, err)
	keys := []models.ItemKey{
		{Style: style, ID: 1},
		{Style: style, ID: 2},
		{Style: style, ID: 3},
	}
	return &Bundle{
		Vectorizer: vec,
		Matrix:     matrix,
		Keys:       keys,
		Meta: models.ArtifactMeta{
			Style:  style,
			Rows:   len(matrix),
			Dims:   vec.Dims(),
			Styles: []string{style},
		},
	}
}

func TestBundleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	saved := fitTestBundle(t, "reds")
	require.NoError(t, SaveBundle(dir, "reds", saved))

	loaded, err := LoadBundle(dir, "reds")
	require.NoError(t, err)

	assert.Equal(t, saved.Keys, loaded.Keys)
	assert.Equal(t, saved.Meta, loaded.Meta)
	assert.Equal(t, saved.Vectorizer.Vocabulary, loaded.Vectorizer.Vocabulary)
	assert.Equal(t, saved.Vectorizer.IDF, loaded.Vectorizer.IDF)
	require.Len(t, loaded.Matrix, len(saved.Matrix))

	// Scoring must be identical through the round trip.
	q := loaded.Vectorizer.TransformOne("pinot noir")
	for i := range saved.Matrix {
		assert.InDelta(t, saved.Matrix[i].Dot(q), loaded.Matrix[i].Dot(q), 1e-12)
	}
}

func TestSaveBundle_RejectsMisalignment(t *testing.T) {
	dir := t.TempDir()
	b := fitTestBundle(t, "reds")
	b.Keys = b.Keys[:2]
	assert.Error(t, SaveBundle(dir, "reds", b))
}

func TestLoadBundle_MissingArtifacts(t *testing.T) {
	_, err := LoadBundle(t.TempDir(), "whites")
	assert.Error(t, err)
}

func TestLoadBundle_RejectsDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	b := fitTestBundle(t, "reds")
	b.Keys[2] = b.Keys[0]
	require.NoError(t, SaveBundle(dir, "reds", b))

	_, err := LoadBundle(dir, "reds")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
}
