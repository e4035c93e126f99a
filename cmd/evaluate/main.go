// Command evaluate scores the preference engine against the synthetic user
// panel and writes the metric table as CSV plus an HTML summary.
package main

import (
	"flag"
	"log"

	"github.com/sirupsen/logrus"

	"winereco/internal/app"
	"winereco/internal/config"
	"winereco/internal/report"
	"winereco/internal/services"
	"winereco/internal/tracking"
	"winereco/internal/validation"
)

func main() {
	style := flag.String("style", "all", "artifact style to evaluate against")
	k := flag.Int("k", 5, "recommendations per user")
	usersFile := flag.String("users", "", "users file (default: data.users_file from config)")
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
	evaluator := services.NewEvaluator(engine, logger)

	run := tracker.StartRun("evaluate", "evaluate_"+*style)
	run.Config["style"] = *style
	run.Config["k"] = *k
	run.Config["users"] = len(users)

	rows, summary := evaluator.Evaluate(m, users, *k)

	writer := report.NewWriter(cfg.Data.ReportDir, logger)
	csvPath, htmlPath, err := writer.WriteEvaluation(rows, summary)
	if err != nil {
		logger.WithError(err).Fatal("Failed to write evaluation report")
	}

	run.Metrics["avg_hit_at_k"] = summary.AvgHitAtK
	run.Metrics["avg_terms_hit_at_k"] = summary.AvgTermsHit
	run.Metrics["avg_country_hit_at_k"] = summary.AvgCountryHit
	run.Metrics["avg_diversity_at_k"] = summary.AvgDiversity
	run.Artifacts = append(run.Artifacts, csvPath, htmlPath)
	tracker.Finish(run)

	logger.WithFields(logrus.Fields{
		"users":         summary.Users,
		"avg_hit":       summary.AvgHitAtK,
		"avg_diversity": summary.AvgDiversity,
		"csv":           csvPath,
	}).Info("Evaluation report complete")
}
