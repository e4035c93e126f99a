package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.sampleapis.com/wines", cfg.API.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.API.Timeout)

	assert.Equal(t, "data/snapshots", cfg.Data.SnapshotDir)
	assert.Equal(t, "artifacts", cfg.Data.ArtifactDir)
	assert.Equal(t, "schemas", cfg.Data.SchemaDir)

	assert.Equal(t, 1, cfg.TFIDF.NgramMin)
	assert.Equal(t, 2, cfg.TFIDF.NgramMax)
	assert.Equal(t, 2, cfg.TFIDF.MinDF)

	assert.InDelta(t, 0.05, cfg.Engine.Boost, 1e-9)
	assert.InDelta(t, 0.20, cfg.Engine.Penalty, 1e-9)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Redis.ResultTTL)

	assert.Equal(t, "wine-reco", cfg.Tracking.Project)
}
