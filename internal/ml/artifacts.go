package ml

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"winereco/pkg/models"
)

// Bundle is the artifact set produced by a fit: the vectorizer, its
// row-aligned matrix, the key list and a small metadata record. Keys and
// matrix rows stay in lockstep across save/load.
type Bundle struct {
	Vectorizer *Vectorizer
	Matrix     []Vector
	Keys       []models.ItemKey
	Meta       models.ArtifactMeta
}

func vectorizerPath(dir, style string) string {
	return filepath.Join(dir, fmt.Sprintf("tfidf_%s.gob", style))
}
func matrixPath(dir, style string) string {
	return filepath.Join(dir, fmt.Sprintf("x_%s.gob", style))
}
func keysPath(dir, style string) string {
	return filepath.Join(dir, fmt.Sprintf("keys_%s.json", style))
}
func metaPath(dir, style string) string {
	return filepath.Join(dir, fmt.Sprintf("meta_%s.json", style))
}

// SaveBundle writes the artifact files for a style into dir.
func SaveBundle(dir, style string, b *Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if len(b.Keys) != len(b.Matrix) {
		return fmt.Errorf("artifact bundle misaligned: %d keys vs %d rows", len(b.Keys), len(b.Matrix))
	}
	if err := writeGob(vectorizerPath(dir, style), b.Vectorizer); err != nil {
		return err
	}
	if err := writeGob(matrixPath(dir, style), b.Matrix); err != nil {
		return err
	}
	if err := writeJSON(keysPath(dir, style), b.Keys); err != nil {
		return err
	}
	return writeJSON(metaPath(dir, style), b.Meta)
}

// LoadBundle reads the artifact files for a style and verifies alignment.
// Missing files and key/matrix misalignment are load-time failures: the
// engine must never silently score against the wrong item.
func LoadBundle(dir, style string) (*Bundle, error) {
	b := &Bundle{Vectorizer: &Vectorizer{}}
	if err := readGob(vectorizerPath(dir, style), b.Vectorizer); err != nil {
		return nil, err
	}
	if err := readGob(matrixPath(dir, style), &b.Matrix); err != nil {
		return nil, err
	}
	if err := readJSON(keysPath(dir, style), &b.Keys); err != nil {
		return nil, err
	}
	if err := readJSON(metaPath(dir, style), &b.Meta); err != nil {
		return nil, err
	}
	if len(b.Keys) != len(b.Matrix) {
		return nil, fmt.Errorf("artifacts for %q misaligned: %d keys vs %d rows", style, len(b.Keys), len(b.Matrix))
	}
	seen := make(map[models.ItemKey]struct{}, len(b.Keys))
	for _, k := range b.Keys {
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("artifacts for %q contain duplicate key %s", style, k)
		}
		seen[k] = struct{}{}
	}
	return b, nil
}

func writeGob(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
