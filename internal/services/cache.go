package services

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"winereco/internal/catalog"
	"winereco/internal/ml"
	"winereco/pkg/models"
)

// LoadModel assembles a scoring model for a style: the artifact bundle plus
// the latest validated frames of its constituent styles. The "all" bundle
// enumerates its styles in the artifact metadata.
func LoadModel(artifactDir, snapshotDir, style string) (*Model, error) {
	bundle, err := ml.LoadBundle(artifactDir, style)
	if err != nil {
		return nil, fmt.Errorf("load artifacts for %q: %w", style, err)
	}

	styles := bundle.Meta.Styles
	if len(styles) == 0 {
		styles = []string{style}
	}
	wines, err := catalog.LoadFrames(snapshotDir, styles)
	if err != nil {
		return nil, fmt.Errorf("load frames for %q: %w", style, err)
	}

	items := make(map[models.ItemKey]models.Wine, len(wines))
	for _, w := range wines {
		items[models.ItemKey{Style: w.Style, ID: w.ID}] = w
	}

	return &Model{
		Style:      style,
		Styles:     styles,
		Vectorizer: bundle.Vectorizer,
		Matrix:     bundle.Matrix,
		Keys:       bundle.Keys,
		Items:      items,
		Meta:       bundle.Meta,
	}, nil
}

// ModelCache owns loaded models keyed by style: construct-on-first-use, no
// eviction. The first caller pays the load cost; later callers reuse the
// read-only model. The lock only guards the map, never the scoring path.
type ModelCache struct {
	mu          sync.RWMutex
	artifactDir string
	snapshotDir string
	logger      *logrus.Logger
	models      map[string]*Model
}

func NewModelCache(artifactDir, snapshotDir string, logger *logrus.Logger) *ModelCache {
	return &ModelCache{
		artifactDir: artifactDir,
		snapshotDir: snapshotDir,
		logger:      logger,
		models:      make(map[string]*Model),
	}
}

// Get returns the model for a style, loading it on first use.
func (c *ModelCache) Get(style string) (*Model, error) {
	c.mu.RLock()
	m, ok := c.models[style]
	c.mu.RUnlock()
	if ok {
		return m, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.models[style]; ok {
		return m, nil
	}
	m, err := LoadModel(c.artifactDir, c.snapshotDir, style)
	if err != nil {
		return nil, err
	}
	c.models[style] = m
	c.logger.WithFields(logrus.Fields{
		"style": style,
		"rows":  m.Meta.Rows,
		"dims":  m.Meta.Dims,
	}).Info("Model loaded into cache")
	return m, nil
}
