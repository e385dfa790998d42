package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/workoutdash/internal/config"
	"github.com/2beens/workoutdash/internal/insights"
	"github.com/2beens/workoutdash/internal/storage"
	"github.com/2beens/workoutdash/internal/summaries"
	"github.com/2beens/workoutdash/internal/trends"
	"github.com/2beens/workoutdash/internal/workouts"

	log "github.com/sirupsen/logrus"
)

// appends hand written insight examples to a JSONL fine-tune dataset

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	list := flag.Bool("list", false, "list the exercises that can be annotated and exit")
	exercise := flag.String("exercise", "", "exercise the example is about")
	idealFile := flag.String("ideal", "-", "file with the ideal insight text, - for stdin")
	outPath := flag.String("out", "env/fine_tune_dataset.jsonl", "JSONL dataset to append to")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx := context.Background()
	store, err := storage.New(ctx, storage.Params{
		Backend:         cfg.StorageBackend,
		DiskRootPath:    cfg.StorageRootPath,
		CredentialsFile: cfg.DriveCredentialsPath,
		DriveFolderName: cfg.DriveFolderName,
	})
	if err != nil {
		log.Fatalf("new storage: %s", err)
	}

	rows, err := summaries.NewCSVSource(store, cfg.OutputKey).ListAll(ctx)
	if err != nil {
		log.Fatalf("read summary table: %s", err)
	}

	eligible := trends.Eligible(rows, cfg.MinExerciseEntries)
	options := trends.FilterOptions(rows, trends.ByExercise, cfg.MinExerciseEntries)
	if *list {
		for _, o := range options {
			fmt.Println(o)
		}
		return
	}

	if *exercise == "" {
		log.Fatalf("-exercise is required, one of: %s", strings.Join(options, ", "))
	}
	focus := make([]workouts.AggregatedRow, 0)
	for _, r := range eligible {
		if r.ExerciseName == *exercise {
			focus = append(focus, r)
		}
	}
	if len(focus) == 0 {
		log.Fatalf("no eligible rows for exercise [%s]", *exercise)
	}

	ideal, err := readIdeal(*idealFile)
	if err != nil {
		log.Fatalf("read ideal response: %s", err)
	}

	prompt, err := insights.BuildRowsPrompt(focus, eligible)
	if err != nil {
		log.Fatalf("build prompt: %s", err)
	}

	if err := appendExample(*outPath, prompt, ideal); err != nil {
		log.Fatalf("save example: %s", err)
	}
	log.Infof("example for [%s] saved to %s", *exercise, *outPath)
}

func readIdeal(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func appendExample(path, prompt, ideal string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return insights.WriteFineTuneExample(f, prompt, ideal)
}
