package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutdash/internal/bodyparts"
	"github.com/2beens/workoutdash/internal/storage"
	"github.com/2beens/workoutdash/internal/telemetry/metrics"
	"github.com/2beens/workoutdash/internal/telemetry/tracing"
	"github.com/2beens/workoutdash/internal/workouts"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=pipeline_test

type entriesEnricher interface {
	Enrich(ctx context.Context, entries []workouts.EnrichedEntry) bodyparts.Result
}

// SummarySink receives a copy of every successfully written summary table.
type SummarySink interface {
	ReplaceAll(ctx context.Context, runID string, rows []workouts.AggregatedRow) error
}

type Params struct {
	InputKey  string
	OutputKey string
	// Comma is the input field delimiter, ',' if zero.
	Comma rune
	// DefaultRPE is the last-resort intensity, workouts.DefaultRPE if zero.
	DefaultRPE float64
}

type Runner struct {
	store          storage.Store
	enricher       entriesEnricher
	sink           SummarySink
	metricsManager *metrics.Manager
}

// NewRunner creates a runner. sink may be nil.
func NewRunner(
	store storage.Store,
	enricher entriesEnricher,
	sink SummarySink,
	metricsManager *metrics.Manager,
) *Runner {
	return &Runner{
		store:          store,
		enricher:       enricher,
		sink:           sink,
		metricsManager: metricsManager,
	}
}

// Run loads the export at params.InputKey, builds the summary table and
// publishes it at params.OutputKey, together with the run report.
// A non-nil error means nothing new was published at the output key.
func (r *Runner) Run(ctx context.Context, params Params) (report *RunReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pipeline.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	report = &RunReport{
		RunID:     uuid.NewString(),
		InputKey:  params.InputKey,
		OutputKey: params.OutputKey,
		StartedAt: time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("run_id", report.RunID))
	runLog := log.WithField("run_id", report.RunID)
	runLog.Infof("pipeline: run started, input [%s], output [%s]", params.InputKey, params.OutputKey)

	defer func() {
		report.FinishedAt = time.Now().UTC()
		if err != nil {
			report.Status = StatusFailed
			report.Error = err.Error()
			// best effort, the caller gets the original error either way
			if writeErr := writeReport(ctx, r.store, report); writeErr != nil {
				runLog.Errorf("pipeline: write failed run report: %s", writeErr)
			}
			runLog.Errorf("pipeline: run failed: %s", err)
		} else {
			runLog.Infof("pipeline: run finished with status [%s] in %s", report.Status, report.Duration())
		}
		r.metricsManager.CounterPipelineRuns.WithLabelValues(string(report.Status)).Inc()
		r.metricsManager.HistPipelineDuration.Observe(report.Duration().Seconds())
		span.SetAttributes(attribute.String("status", string(report.Status)))
	}()

	if params.InputKey == "" || params.OutputKey == "" {
		return report, errors.New("input and output keys are required")
	}

	raw, err := r.load(ctx, params, report)
	if err != nil {
		return report, err
	}

	defaultRPE := params.DefaultRPE
	if defaultRPE == 0 {
		defaultRPE = workouts.DefaultRPE
	}
	enriched := r.impute(ctx, raw, defaultRPE, report)

	var warn error
	if len(enriched) > 0 {
		warn = multierr.Append(warn, r.enrich(ctx, enriched, report))
	}

	workouts.Bucket(enriched)
	rows := workouts.Aggregate(enriched)
	report.SummaryRows = len(rows)

	if err := r.publish(ctx, params.OutputKey, rows); err != nil {
		return report, err
	}
	r.metricsManager.GaugeSummaryRows.Set(float64(len(rows)))

	if r.sink != nil && len(rows) > 0 {
		if sinkErr := r.sink.ReplaceAll(ctx, report.RunID, rows); sinkErr != nil {
			warn = multierr.Append(warn, fmt.Errorf("summary sink: %w", sinkErr))
		}
	}

	for _, w := range multierr.Errors(warn) {
		report.Warnings = append(report.Warnings, w.Error())
	}

	switch {
	case len(raw) == 0:
		report.Status = StatusEmpty
	case warn != nil:
		report.Status = StatusDegraded
	default:
		report.Status = StatusOK
	}

	report.FinishedAt = time.Now().UTC()
	if writeErr := writeReport(ctx, r.store, report); writeErr != nil {
		runLog.Errorf("pipeline: write run report: %s", writeErr)
	}

	return report, nil
}

func (r *Runner) load(ctx context.Context, params Params, report *RunReport) (_ []workouts.RawEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pipeline.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rc, err := r.store.Get(ctx, params.InputKey)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", params.InputKey, err)
	}
	defer rc.Close()

	raw, stats, err := workouts.NewLoader(params.Comma).Load(rc)
	report.Load = stats
	if err != nil {
		return nil, fmt.Errorf("load input %s: %w", params.InputKey, err)
	}

	r.metricsManager.CounterRowsLoaded.Add(float64(stats.RowsLoaded))
	r.metricsManager.CounterRowsDropped.Add(float64(stats.RowsDropped))
	span.SetAttributes(
		attribute.Int("rows.read", stats.RowsRead),
		attribute.Int("rows.loaded", stats.RowsLoaded),
		attribute.Int("rows.dropped", stats.RowsDropped),
	)
	log.Debugf("pipeline: loaded %d rows, dropped %d", stats.RowsLoaded, stats.RowsDropped)

	return raw, nil
}

func (r *Runner) impute(ctx context.Context, raw []workouts.RawEntry, defaultRPE float64, report *RunReport) []workouts.EnrichedEntry {
	_, span := tracing.GlobalTracer.Start(ctx, "pipeline.impute")
	defer span.End()

	enriched, stats := workouts.ImputeRPE(raw, defaultRPE)
	report.Impute = stats

	r.metricsManager.CounterRPEImputed.WithLabelValues("same_lift").Add(float64(stats.FilledSameLift))
	r.metricsManager.CounterRPEImputed.WithLabelValues("same_day").Add(float64(stats.FilledSameDay))
	r.metricsManager.CounterRPEImputed.WithLabelValues("default").Add(float64(stats.FilledDefault))
	span.SetAttributes(attribute.Int("rpe.missing", stats.Missing))

	return enriched
}

func (r *Runner) enrich(ctx context.Context, enriched []workouts.EnrichedEntry, report *RunReport) error {
	result := r.enricher.Enrich(ctx, enriched)

	report.DistinctExercises = result.DistinctNames
	report.ExercisesFromCache = result.FromCache
	report.UnclassifiedExercises = result.Unclassified

	r.metricsManager.CounterUnclassified.Add(float64(len(result.Unclassified)))
	if errors.Is(result.Warning, bodyparts.ErrClassificationUnavailable) {
		r.metricsManager.CounterClassifierFailures.Inc()
	}

	return result.Warning
}

func (r *Runner) publish(ctx context.Context, outputKey string, rows []workouts.AggregatedRow) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pipeline.publish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("rows", len(rows)))

	var buf bytes.Buffer
	if err := workouts.WriteSummaryCSV(&buf, rows); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := r.store.Put(ctx, outputKey, &buf); err != nil {
		return fmt.Errorf("write output %s: %w", outputKey, err)
	}
	return nil
}
