package summaries

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/workoutdash/internal/storage"
	"github.com/2beens/workoutdash/internal/workouts"
)

// Source is anything the summary table can be read back from.
type Source interface {
	ListAll(ctx context.Context) ([]workouts.AggregatedRow, error)
}

// CSVSource reads the summary table published by the pipeline.
type CSVSource struct {
	store storage.Store
	key   string
}

func NewCSVSource(store storage.Store, key string) *CSVSource {
	return &CSVSource{
		store: store,
		key:   key,
	}
}

func (s *CSVSource) ListAll(ctx context.Context) ([]workouts.AggregatedRow, error) {
	rc, err := s.store.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoSummary
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := workouts.ReadSummaryCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	return rows, nil
}
