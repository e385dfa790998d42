package insights

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/workoutdash/internal/llm"
	"github.com/2beens/workoutdash/internal/telemetry/metrics"
	"github.com/2beens/workoutdash/internal/telemetry/tracing"
	"github.com/2beens/workoutdash/internal/trends"
	"github.com/2beens/workoutdash/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=insights_test

const DefaultTemperature = 0.7

var ErrNoData = errors.New("no trend data for query")

type rowsSource interface {
	ListAll(ctx context.Context) ([]workouts.AggregatedRow, error)
}

type completer interface {
	Complete(ctx context.Context, request llm.Request) (string, error)
}

type Insight struct {
	Query  trends.Query     `json:"query"`
	Filter string           `json:"filter"`
	Points []trends.Point   `json:"points"`
	Trend  trends.TrendLine `json:"trend"`
	Text   string           `json:"text"`
}

type Service struct {
	source         rowsSource
	client         completer
	model          string
	temperature    float64
	minEntries     int
	metricsManager *metrics.Manager
}

func NewService(
	source rowsSource,
	client completer,
	model string,
	temperature float64,
	minEntries int,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		source:         source,
		client:         client,
		model:          model,
		temperature:    temperature,
		minEntries:     minEntries,
		metricsManager: metricsManager,
	}
}

// Generate builds the trend view for q and asks the model for a narrative on it.
func (s *Service) Generate(ctx context.Context, q trends.Query) (_ *Insight, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "insights.generate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		outcome := "ok"
		switch {
		case errors.Is(err, ErrNoData):
			outcome = "no_data"
		case err != nil:
			outcome = "error"
		}
		s.metricsManager.CounterInsights.WithLabelValues(outcome).Inc()
	}()

	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list summary rows: %w", err)
	}

	selected, filter := trends.Selected(rows, q, s.minEntries)
	q.Filter = filter
	points := trends.Series(rows, q, s.minEntries)
	if len(points) == 0 {
		return nil, ErrNoData
	}
	span.SetAttributes(
		attribute.String("filter", filter),
		attribute.Int("points", len(points)),
	)

	prompt, err := BuildPrompt(points, selected)
	if err != nil {
		return nil, err
	}

	text, err := s.client.Complete(ctx, llm.UserPrompt(s.model, s.temperature, prompt))
	if err != nil {
		return nil, fmt.Errorf("generate insight: %w", err)
	}
	log.Debugf("insights: generated for [%s]: %s", filter, Excerpt(text, 80))

	return &Insight{
		Query:  q,
		Filter: filter,
		Points: points,
		Trend:  trends.Trend(points),
		Text:   text,
	}, nil
}
