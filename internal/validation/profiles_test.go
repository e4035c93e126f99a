package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaDir = "../../schemas"

func newValidator(t *testing.T) *ProfileValidator {
	t.Helper()
	v, err := NewProfileValidator(schemaDir)
	require.NoError(t, err)
	return v
}

func TestProfileValidator(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{
			name:  "minimal profile",
			doc:   `[{"user_id": "u01"}]`,
			valid: true,
		},
		{
			name: "full profile",
			doc: `[{
				"user_id": "u01",
				"terms": ["pinot", "noir"],
				"preferred_styles": ["reds"],
				"avoid_styles": ["port"],
				"prefer_countries": ["france"],
				"min_rating": 4.2,
				"min_reviews": 10,
				"adventurous": 0.5
			}]`,
			valid: true,
		},
		{
			name:  "missing user_id",
			doc:   `[{"terms": ["pinot"]}]`,
			valid: false,
		},
		{
			name:  "unknown style",
			doc:   `[{"user_id": "u01", "preferred_styles": ["orange"]}]`,
			valid: false,
		},
		{
			name:  "rating out of range",
			doc:   `[{"user_id": "u01", "min_rating": 7}]`,
			valid: false,
		},
		{
			name:  "unexpected field",
			doc:   `[{"user_id": "u01", "favourite_color": "red"}]`,
			valid: false,
		},
		{
			name:  "not an array",
			doc:   `{"user_id": "u01"}`,
			valid: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate([]byte(tt.doc))
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.Errors)
			}
		})
	}
}

func TestLoadProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")

	doc := `[
		{"user_id": "u01", "terms": ["riesling"], "preferred_styles": ["whites"]},
		{"user_id": "u02", "prefer_countries": ["italy"], "min_rating": 4.0}
	]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	profiles, err := LoadProfiles(path, schemaDir)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "u01", profiles[0].UserID)
	assert.Equal(t, []string{"riesling"}, profiles[0].Terms)
	assert.InDelta(t, 4.0, profiles[1].MinRating, 1e-9)
}

func TestLoadProfiles_Failures(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProfiles(filepath.Join(dir, "absent.json"), schemaDir)
		assert.Error(t, err)
	})

	t.Run("schema violation", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"terms": []}]`), 0o644))
		_, err := LoadProfiles(path, schemaDir)
		assert.Error(t, err)
	})

	t.Run("empty panel", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))
		_, err := LoadProfiles(path, schemaDir)
		assert.Error(t, err)
	})
}
