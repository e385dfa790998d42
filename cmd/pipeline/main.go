package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/workoutdash/internal"
	"github.com/2beens/workoutdash/internal/config"
	"github.com/2beens/workoutdash/internal/logging"
	"github.com/2beens/workoutdash/internal/pipeline"
	"github.com/2beens/workoutdash/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

// batch run of the workout export pipeline, input and output are storage keys

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	dotEnvPath := flag.String("dotenv", ".env", "path of an optional .env file with secrets")
	input := flag.String("input", "", "storage key of the export to read (default from config)")
	output := flag.String("output", "", "storage key of the summary table to write (default from config)")
	timeout := flag.Duration("timeout", 10*time.Minute, "max duration of the whole run")
	flag.Parse()

	if err := config.LoadDotEnv(*dotEnvPath); err != nil {
		log.Fatalf("dotenv: %s", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	if *input != "" {
		cfg.InputKey = *input
	}
	if *output != "" {
		cfg.OutputKey = *output
	}
	if cfg.InputKey == cfg.OutputKey {
		log.Fatalf("input and output are the same key: %s", cfg.InputKey)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      "",
		LogToStdout:      true,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "workoutdash-pipeline",
	})

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	otelShutdown, err := tracing.HoneycombSetup(honeycombEnabled, "workoutdash-pipeline")
	if err != nil {
		log.Fatalf("tracing setup: %s", err)
	}
	defer otelShutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	components, err := internal.NewComponents(ctx, internal.ComponentsParams{
		Config:           cfg,
		Secrets:          internal.SecretsFromEnv(),
		TracingEnabled:   honeycombEnabled,
		MetricsNamespace: "workoutdash",
		MetricsSubsystem: "pipeline",
	})
	if err != nil {
		log.Fatalf("new components: %s", err)
	}
	defer components.Close()

	report, err := components.Runner.Run(ctx, components.PipelineParams())
	if report != nil {
		printReport(report)
	}
	if err != nil {
		components.Close()
		otelShutdown()
		log.Fatalf("pipeline run failed: %s", err)
	}
}

func printReport(r *pipeline.RunReport) {
	fmt.Printf("run %s: %s in %s\n", r.RunID, r.Status, r.Duration().Round(time.Millisecond))
	fmt.Printf("  rows: read %d, loaded %d, dropped %d\n", r.Load.RowsRead, r.Load.RowsLoaded, r.Load.RowsDropped)
	fmt.Printf("  exercises: %d (%d from cache, %d unclassified)\n",
		r.DistinctExercises, r.ExercisesFromCache, len(r.UnclassifiedExercises))
	fmt.Printf("  summary rows: %d -> %s\n", r.SummaryRows, r.OutputKey)
	for _, w := range r.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	if r.Error != "" {
		fmt.Printf("  error: %s\n", r.Error)
	}
}
