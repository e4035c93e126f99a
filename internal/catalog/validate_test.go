package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestCountryFromLocation(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"France · Bordeaux", "France"},
		{"Portugal\nDouro", "Portugal"},
		{"Italy | Tuscany", "Italy"},
		{"Central Otago - New Zealand", "Central Otago"},
		{"Spain", "Spain"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CountryFromLocation(tt.in))
	}
}

func TestValidateRecords(t *testing.T) {
	records := []json.RawMessage{
		raw(t, map[string]any{"id": 1, "wine": "Barolo Riserva", "winery": "Cantina Alta", "location": "Italy · Piemonte"}),
		raw(t, map[string]any{"id": 2, "winery": "No Name Estate"}),            // missing wine name
		raw(t, map[string]any{"id": 0, "wine": "Phantom"}),                     // invalid id
		json.RawMessage(`"not an object"`),                                     // wrong shape entirely
		raw(t, map[string]any{"id": 3, "wine": "Rioja Crianza", "image": "::"}), // malformed image URL
	}

	ok, bad, dups := ValidateRecords(records, "reds")

	require.Len(t, ok, 1)
	assert.Len(t, bad, 4)
	assert.Zero(t, dups)

	w := ok[0]
	assert.Equal(t, 1, w.ID)
	assert.Equal(t, "reds", w.Style)
	assert.Equal(t, "Italy", w.Country)
}

func TestValidateRecords_DedupeKeepsLast(t *testing.T) {
	records := []json.RawMessage{
		raw(t, map[string]any{"id": 7, "wine": "First Version", "location": "France"}),
		raw(t, map[string]any{"id": 8, "wine": "Untouched", "location": "Spain"}),
		raw(t, map[string]any{"id": 7, "wine": "Second Version", "location": "Chile"}),
	}

	ok, bad, dups := ValidateRecords(records, "reds")
	require.Empty(t, bad)
	assert.Equal(t, 1, dups)
	require.Len(t, ok, 2)

	assert.Equal(t, "Untouched", ok[0].Wine)
	assert.Equal(t, "Second Version", ok[1].Wine)
	assert.Equal(t, "Chile", ok[1].Country)
}

func TestValidateRecords_AllBad(t *testing.T) {
	records := []json.RawMessage{
		raw(t, map[string]any{"id": -1, "wine": "Negative"}),
	}
	ok, bad, dups := ValidateRecords(records, "whites")
	assert.Empty(t, ok)
	assert.Len(t, bad, 1)
	assert.Zero(t, dups)
	assert.NotEmpty(t, bad[0].Error)
}
