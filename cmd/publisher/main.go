package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"autopost/internal/app"
	"autopost/internal/config"

	"github.com/joho/godotenv"
)

// publisher runs the pipeline once with a token from MEDIUM_ACCESS_TOKEN,
// for cron jobs that cannot go through the browser login.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if cfg.MediumAccessToken == "" {
		log.Fatalf("MEDIUM_ACCESS_TOKEN is required")
	}

	orchestrator := app.NewOrchestrator(cfg)

	report, err := orchestrator.Run(context.Background(), cfg.MediumAccessToken)
	if err != nil {
		log.Fatalf("error running pipeline: %v", err)
	}

	for _, f := range report.Feeds {
		if f.Error != "" {
			slog.Warn("feed skipped", "feed", f.Feed, "error", f.Error)
		}
	}

	slog.Info("run complete", "published", report.Published, "failed", report.Failed, "pauses", report.Pauses)

	if report.Failed > 0 {
		os.Exit(1)
	}
}
