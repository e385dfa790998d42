package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/2beens/workoutdash/internal/storage"
	"github.com/2beens/workoutdash/internal/workouts"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusEmpty    Status = "empty"
	StatusFailed   Status = "failed"
)

// RunReport describes one pipeline run. It is written next to the summary table.
type RunReport struct {
	RunID      string    `json:"run_id"`
	Status     Status    `json:"status"`
	InputKey   string    `json:"input_key"`
	OutputKey  string    `json:"output_key"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Load                  workouts.LoadStats   `json:"load"`
	Impute                workouts.ImputeStats `json:"impute"`
	DistinctExercises     int                  `json:"distinct_exercises"`
	ExercisesFromCache    int                  `json:"exercises_from_cache"`
	UnclassifiedExercises []string             `json:"unclassified_exercises,omitempty"`
	SummaryRows           int                  `json:"summary_rows"`

	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ReportKey returns where the report of a run writing outputKey is stored,
// e.g. processed/analysis_output.csv -> processed/analysis_output.report.json.
func ReportKey(outputKey string) string {
	return strings.TrimSuffix(outputKey, path.Ext(outputKey)) + ".report.json"
}

func writeReport(ctx context.Context, store storage.Store, report *RunReport) error {
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}
	return store.Put(ctx, ReportKey(report.OutputKey), bytes.NewReader(content))
}

// LoadReport reads the last report written for outputKey.
// It returns storage.ErrNotFound if the pipeline never ran.
func LoadReport(ctx context.Context, store storage.Store, outputKey string) (*RunReport, error) {
	rc, err := store.Get(ctx, ReportKey(outputKey))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read run report: %w", err)
	}

	report := &RunReport{}
	if err := json.Unmarshal(content, report); err != nil {
		return nil, fmt.Errorf("unmarshal run report: %w", err)
	}
	return report, nil
}
