// Command snapshot fetches every wine style from the upstream catalog API and
// writes a timestamped snapshot directory of raw JSON plus CSV mirrors.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/sirupsen/logrus"

	"winereco/internal/app"
	"winereco/internal/catalog"
	"winereco/internal/config"
	"winereco/pkg/models"
)

func main() {
	stylesFlag := flag.String("styles", "", "comma-separated styles to fetch (default: all known styles)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := app.SetupLogger(&cfg.Logging)

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

	dir, err := catalog.TimestampDir(cfg.Data.SnapshotDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create snapshot directory")
	}

	client := catalog.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	ctx := context.Background()

	for _, style := range styles {
		items, err := client.FetchStyle(ctx, style)
		if err != nil {
			logger.WithError(err).WithField("style", style).Fatal("Fetch failed")
		}
		if err := catalog.SaveSnapshot(items, style, dir); err != nil {
			logger.WithError(err).WithField("style", style).Fatal("Failed to write snapshot")
		}
		logger.WithFields(logrus.Fields{
			"style": style,
			"count": len(items),
			"dir":   dir,
		}).Info("Snapshot saved")
	}

	logger.WithField("dir", dir).Info("Snapshot complete")
}
