// Command embed fits the TF-IDF vectorizer for one style (or the combined
// "all" pool) against the latest snapshot and writes the artifact bundle.
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/sirupsen/logrus"

	"winereco/internal/app"
	"winereco/internal/catalog"
	"winereco/internal/config"
	"winereco/internal/ml"
	"winereco/internal/services"
	"winereco/internal/tracking"
	"winereco/pkg/models"
)

func main() {
	styleFlag := flag.String("style", "all", "style to embed, or \"all\" for the combined pool")
	outDir := flag.String("outdir", "", "artifact directory (default: data.artifact_dir from config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *outDir != "" {
		cfg.Data.ArtifactDir = *outDir
	}
	logger := app.SetupLogger(&cfg.Logging)
	tracker := tracking.New(cfg.Tracking.Dir, cfg.Tracking.Project, logger)

	style := strings.ToLower(strings.TrimSpace(*styleFlag))
	styles := []string{style}
	if style == "all" {
		styles = models.DefaultStyles
	} else if !models.IsKnownStyle(style) {
		logger.WithField("style", style).Fatal("Unknown style")
	}

	wines, err := catalog.LoadFrames(cfg.Data.SnapshotDir, styles)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load validated frames")
	}

	run := tracker.StartRun("embed", "embed_"+style)
	run.Config["style"] = style
	run.Config["styles"] = styles
	run.Config["ngram_min"] = cfg.TFIDF.NgramMin
	run.Config["ngram_max"] = cfg.TFIDF.NgramMax
	run.Config["min_df"] = cfg.TFIDF.MinDF

	corpus := services.BuildCorpus(wines)
	vec, matrix, err := ml.FitTFIDF(corpus, cfg.TFIDF.NgramMin, cfg.TFIDF.NgramMax, cfg.TFIDF.MinDF)
	if err != nil {
		logger.WithError(err).WithField("style", style).Fatal("TF-IDF fit failed")
	}

	keys := make([]models.ItemKey, len(wines))
	for i, w := range wines {
		keys[i] = models.ItemKey{Style: w.Style, ID: w.ID}
	}

	bundle := &ml.Bundle{
		Vectorizer: vec,
		Matrix:     matrix,
		Keys:       keys,
		Meta: models.ArtifactMeta{
			Style:  style,
			Rows:   len(matrix),
			Dims:   vec.Dims(),
			Styles: styles,
		},
	}
	if err := ml.SaveBundle(cfg.Data.ArtifactDir, style, bundle); err != nil {
		logger.WithError(err).WithField("style", style).Fatal("Failed to write artifacts")
	}

	run.Metrics["rows"] = float64(len(matrix))
	run.Metrics["dims"] = float64(vec.Dims())
	run.Artifacts = append(run.Artifacts, cfg.Data.ArtifactDir)
	tracker.Finish(run)

	logger.WithFields(logrus.Fields{
		"style": style,
		"rows":  len(matrix),
		"dims":  vec.Dims(),
	}).Info("Artifacts written")
}
