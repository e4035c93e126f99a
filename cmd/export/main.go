// Command export runs the preference engine for every profile in the users
// file and renders the per-user recommendation cards as a single HTML page.
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/sirupsen/logrus"

	"winereco/internal/app"
	"winereco/internal/config"
	"winereco/internal/report"
	"winereco/internal/services"
	"winereco/internal/tracking"
	"winereco/internal/validation"
	"winereco/pkg/models"
)

func main() {
	style := flag.String("style", "all", "artifact style to recommend from")
	k := flag.Int("k", 5, "recommendations per user")
	usersFile := flag.String("users", "", "users file (default: data.users_file from config)")
	out := flag.String("out", "", "output path (default: reports/reco_<style>_<ts>.html)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *usersFile != "" {
		cfg.Data.UsersFile = *usersFile
	}
	logger := app.SetupLogger(&cfg.Logging)
	tracker := tracking.New(cfg.Tracking.Dir, cfg.Tracking.Project, logger)

	users, err := validation.LoadProfiles(cfg.Data.UsersFile, cfg.Data.SchemaDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load user profiles")
	}

	m, err := services.LoadModel(cfg.Data.ArtifactDir, cfg.Data.SnapshotDir, *style)
	if err != nil {
		logger.WithError(err).WithField("style", *style).Fatal("Failed to load model")
	}
	engine := services.NewPreferenceEngine(&cfg.Engine, logger)

	run := tracker.StartRun("export", "export_"+*style)
	run.Config["style"] = *style
	run.Config["k"] = *k
	run.Config["users"] = len(users)

	sections := make([]report.UserSection, 0, len(users))
	for _, u := range users {
		picks := engine.Recommend(m, u, *k)

		cards := make([]report.Card, 0, len(picks))
		for _, p := range picks {
			item, ok := m.Item(p.Key)
			if !ok {
				continue
			}
			cards = append(cards, report.Card{
				Wine:    item.Wine,
				Winery:  item.Winery,
				Country: item.Country,
				Style:   item.Style,
				Image:   item.Image,
			})
		}
		sections = append(sections, report.UserSection{
			UserID:      u.UserID,
			Terms:       strings.Join(u.Terms, ", "),
			StylesLabel: stylesLabel(u),
			K:           *k,
			Cards:       cards,
		})
	}

	writer := report.NewWriter(cfg.Data.ReportDir, logger)
	path, err := writer.WriteRecommendations(*style, sections, *out)
	if err != nil {
		logger.WithError(err).Fatal("Failed to write recommendation report")
	}

	run.Metrics["users"] = float64(len(sections))
	run.Artifacts = append(run.Artifacts, path)
	tracker.Finish(run)

	logger.WithFields(logrus.Fields{
		"users": len(sections),
		"path":  path,
	}).Info("Export complete")
}

func stylesLabel(u models.UserProfile) string {
	if len(u.PreferredStyles) > 0 {
		return strings.Join(u.PreferredStyles, ", ")
	}
	if len(u.AvoidStyles) > 0 {
		return "all styles except " + strings.Join(u.AvoidStyles, ", ")
	}
	return "all styles"
}
