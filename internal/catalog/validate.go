package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"winereco/pkg/models"
)

var (
	validate = validator.New()

	// locationDelims splits a location into segments; the country is the
	// first one ("France · Bordeaux" -> "France").
	locationDelims = regexp.MustCompile(`[·|\-\n]`)
)

// Stats summarizes one validation pass over a snapshot file.
type Stats struct {
	Style             string `json:"style"`
	SnapshotPath      string `json:"snapshot_path"`
	RawTotal          int    `json:"raw_total"`
	ValidatedOK       int    `json:"validated_ok"`
	InvalidBad        int    `json:"invalid_bad"`
	DuplicatesRemoved int    `json:"duplicates_removed"`
	FinalRows         int    `json:"final_rows"`
}

// BadRecord pairs a rejected raw record with the reason it was rejected.
type BadRecord struct {
	Error string          `json:"error"`
	Item  json.RawMessage `json:"item"`
}

// ValidateRecords checks every raw record against the item schema, tagging
// each as accepted or rejected instead of aborting. Accepted records get the
// style stamped on and the country derived from the location; duplicates by
// id are dropped keep-last.
func ValidateRecords(raw []json.RawMessage, style string) ([]models.Wine, []BadRecord, int) {
	var ok []models.Wine
	var bad []BadRecord

	for _, item := range raw {
		var w models.Wine
		if err := json.Unmarshal(item, &w); err != nil {
			bad = append(bad, BadRecord{Error: err.Error(), Item: item})
			continue
		}
		w.Style = style
		if err := validate.Struct(&w); err != nil {
			bad = append(bad, BadRecord{Error: err.Error(), Item: item})
			continue
		}
		w.Country = CountryFromLocation(w.Location)
		ok = append(ok, w)
	}

	// Keep-last dedupe by id, preserving the order of surviving records.
	lastIdx := make(map[int]int, len(ok))
	for i, w := range ok {
		lastIdx[w.ID] = i
	}
	deduped := make([]models.Wine, 0, len(lastIdx))
	for i, w := range ok {
		if lastIdx[w.ID] == i {
			deduped = append(deduped, w)
		}
	}
	return deduped, bad, len(ok) - len(deduped)
}

// CountryFromLocation extracts the first location segment as the country.
func CountryFromLocation(loc string) string {
	if loc == "" {
		return ""
	}
	return strings.TrimSpace(locationDelims.Split(loc, 2)[0])
}

// LoadLatestFrame loads the latest snapshot for a style, validates it and
// returns the clean frame plus pass statistics. Rejected records are written
// to a sidecar wines_<style>_bad.json next to the snapshot; an empty result
// after validation is fatal.
func LoadLatestFrame(snapshotBase, style string) ([]models.Wine, Stats, error) {
	dir, err := LatestDir(snapshotBase)
	if err != nil {
		return nil, Stats{}, err
	}
	jsonPath := filepath.Join(dir, fmt.Sprintf("wines_%s.json", style))
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read snapshot %s: %w", jsonPath, err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Stats{}, fmt.Errorf("parse snapshot %s: %w", jsonPath, err)
	}

	wines, bad, dups := ValidateRecords(raw, style)
	if len(bad) > 0 {
		badPath := strings.TrimSuffix(jsonPath, ".json") + "_bad.json"
		if badData, err := json.MarshalIndent(bad, "", "  "); err == nil {
			_ = os.WriteFile(badPath, badData, 0o644)
		}
	}

	stats := Stats{
		Style:             style,
		SnapshotPath:      jsonPath,
		RawTotal:          len(raw),
		ValidatedOK:       len(wines) + dups,
		InvalidBad:        len(bad),
		DuplicatesRemoved: dups,
		FinalRows:         len(wines),
	}
	if len(wines) == 0 {
		return nil, stats, fmt.Errorf("empty frame for style %q after validation (%d raw, %d rejected)",
			style, len(raw), len(bad))
	}
	return wines, stats, nil
}

// LoadFrames loads and concatenates validated frames for several styles,
// each stamped with its style. Styles with no snapshot file are an error;
// an entirely empty pool is fatal.
func LoadFrames(snapshotBase string, styles []string) ([]models.Wine, error) {
	var all []models.Wine
	for _, style := range styles {
		wines, _, err := LoadLatestFrame(snapshotBase, style)
		if err != nil {
			return nil, err
		}
		all = append(all, wines...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty frame pool for styles %v", styles)
	}
	return all, nil
}
