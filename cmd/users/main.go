// Command users synthesizes a panel of user preference profiles from the
// latest snapshot, validates it against the profile schema and writes it as
// the users file the export and evaluate pipelines consume.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"winereco/internal/app"
	"winereco/internal/catalog"
	"winereco/internal/config"
	"winereco/internal/services"
	"winereco/internal/validation"
	"winereco/pkg/models"
)

func main() {
	n := flag.Int("n", 30, "number of profiles to generate")
	seed := flag.Int64("seed", 42, "random seed (a fixed seed yields a fixed panel)")
	stylesFlag := flag.String("styles", "", "comma-separated styles to sample from (default: all known styles)")
	out := flag.String("out", "", "output path (default: data.users_file from config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := app.SetupLogger(&cfg.Logging)

	outPath := *out
	if outPath == "" {
		outPath = cfg.Data.UsersFile
	}

	styles := models.DefaultStyles
	if *stylesFlag != "" {
		styles = nil
		for _, s := range strings.Split(*stylesFlag, ",") {
			s = strings.TrimSpace(s)
			if !models.IsKnownStyle(s) {
				logger.WithField("style", s).Fatal("Unknown style")
			}
			styles = append(styles, s)
		}
	}

	wines, err := catalog.LoadFrames(cfg.Data.SnapshotDir, styles)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load validated frames")
	}

	synth := services.NewUserSynthesizer(logger)
	profiles := synth.Generate(wines, styles, services.SynthesizerOptions{
		N:    *n,
		Seed: *seed,
	})

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		logger.WithError(err).Fatal("Failed to marshal profiles")
	}

	// The generator must only ever emit panels that pass the same schema
	// gate the consumers apply.
	validator, err := validation.NewProfileValidator(cfg.Data.SchemaDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load profile schema")
	}
	if result := validator.Validate(data); !result.Valid {
		logger.WithFields(logrus.Fields{
			"violations": len(result.Errors),
			"first":      result.Errors[0].Message,
		}).Fatal("Generated panel failed schema validation")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create output directory")
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		logger.WithError(err).Fatal("Failed to write users file")
	}

	logger.WithFields(logrus.Fields{
		"users": len(profiles),
		"seed":  *seed,
		"path":  outPath,
	}).Info("User panel written")
}
