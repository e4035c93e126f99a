package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// TimestampDir creates and returns a sortable timestamped snapshot directory
// under base. Lexicographic order of directory names equals creation order.
func TimestampDir(base string) (string, error) {
	dir := filepath.Join(base, time.Now().Format("20060102-150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	return dir, nil
}

// LatestDir returns the lexicographically greatest snapshot directory under
// base. No snapshot at all is a fatal condition for every downstream step.
func LatestDir(base string) (string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return "", fmt.Errorf("no snapshots under %s: %w (run snapshot first)", base, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("no snapshots under %s (run snapshot first)", base)
	}
	sort.Strings(dirs)
	return filepath.Join(base, dirs[len(dirs)-1]), nil
}

// SaveSnapshot writes the raw records for one style into dir as an indented
// JSON array plus a denormalized flat-table CSV mirror.
func SaveSnapshot(items []json.RawMessage, style, dir string) error {
	jsonPath := filepath.Join(dir, fmt.Sprintf("wines_%s.json", style))
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot for %s: %w", style, err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}

	csvPath := filepath.Join(dir, fmt.Sprintf("wines_%s.csv", style))
	return writeCSVMirror(items, csvPath)
}

// rawRecord is the loose view of an upstream record used for the CSV mirror.
type rawRecord struct {
	ID       *int    `json:"id"`
	Wine     string  `json:"wine"`
	Winery   string  `json:"winery"`
	Location string  `json:"location"`
	Image    string  `json:"image"`
	Rating   *struct {
		Average *float64 `json:"average"`
		Reviews string   `json:"reviews"`
	} `json:"rating"`
}

func writeCSVMirror(items []json.RawMessage, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"id", "wine", "winery", "location", "image", "rating.average", "rating.reviews"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, item := range items {
		var r rawRecord
		// Records that do not even parse loosely still get an empty row so
		// the mirror stays row-aligned with the JSON array.
		_ = json.Unmarshal(item, &r)

		row := make([]string, len(header))
		if r.ID != nil {
			row[0] = strconv.Itoa(*r.ID)
		}
		row[1], row[2], row[3], row[4] = r.Wine, r.Winery, r.Location, r.Image
		if r.Rating != nil {
			if r.Rating.Average != nil {
				row[5] = strconv.FormatFloat(*r.Rating.Average, 'f', -1, 64)
			}
			row[6] = r.Rating.Reviews
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
