package trends

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/workoutdash/internal/workouts"

	"github.com/go-playground/validator/v10"
)

type Granularity string

const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

type Metric string

const (
	TotalVolume Metric = "total_volume"
	AvgRPE      Metric = "avg_rpe"
	TotalReps   Metric = "total_reps"
)

func (m Metric) Label() string {
	switch m {
	case AvgRPE:
		return "Average RPE"
	case TotalReps:
		return "Total Reps"
	default:
		return "Total Volume"
	}
}

type GroupBy string

const (
	ByExercise GroupBy = "exercise_name"
	ByBodyPart GroupBy = "body_part"
)

// DefaultMinExerciseEntries is the number of sets an exercise needs across
// the whole table to show up in trends.
const DefaultMinExerciseEntries = 25

var ErrInvalidQuery = errors.New("invalid trend query")

var validate = validator.New()

type Query struct {
	Granularity Granularity `json:"granularity" validate:"required,oneof=weekly monthly"`
	Metric      Metric      `json:"metric" validate:"required,oneof=total_volume avg_rpe total_reps"`
	GroupBy     GroupBy     `json:"group_by" validate:"required,oneof=exercise_name body_part"`
	// Filter selects one group value. Empty means the first available option.
	Filter string `json:"filter"`
}

// WithDefaults fills empty fields with weekly total volume by exercise.
func (q Query) WithDefaults() Query {
	if q.Granularity == "" {
		q.Granularity = Weekly
	}
	if q.Metric == "" {
		q.Metric = TotalVolume
	}
	if q.GroupBy == "" {
		q.GroupBy = ByExercise
	}
	return q
}

func (q Query) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return nil
}

// Point is one value of the trend line for a bucket date and group.
type Point struct {
	Date       time.Time `json:"date"`
	GroupLabel string    `json:"group_label"`
	Sum        float64   `json:"sum"`
	Sets       int       `json:"sets"`
	Value      float64   `json:"metric_value"`
}

// Eligible keeps rows of exercises with at least minEntries sets in total.
// Stored rows are never changed.
func Eligible(rows []workouts.AggregatedRow, minEntries int) []workouts.AggregatedRow {
	setsPerExercise := make(map[string]int)
	for _, r := range rows {
		setsPerExercise[r.ExerciseName] += r.Sets
	}

	var eligible []workouts.AggregatedRow
	for _, r := range rows {
		if setsPerExercise[r.ExerciseName] >= minEntries {
			eligible = append(eligible, r)
		}
	}
	return eligible
}

func groupValue(r workouts.AggregatedRow, groupBy GroupBy) string {
	if groupBy == ByBodyPart {
		return string(r.BodyPart)
	}
	return r.ExerciseName
}

// FilterOptions lists the sorted distinct non-empty group values of eligible rows.
func FilterOptions(rows []workouts.AggregatedRow, groupBy GroupBy, minEntries int) []string {
	seen := make(map[string]struct{})
	options := []string{}
	for _, r := range Eligible(rows, minEntries) {
		v := groupValue(r, groupBy)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		options = append(options, v)
	}
	sort.Strings(options)
	return options
}

// Selected returns the eligible rows matching the query filter, and the filter used.
func Selected(rows []workouts.AggregatedRow, q Query, minEntries int) ([]workouts.AggregatedRow, string) {
	filter := q.Filter
	if filter == "" {
		options := FilterOptions(rows, q.GroupBy, minEntries)
		if len(options) == 0 {
			return nil, ""
		}
		filter = options[0]
	}

	var selected []workouts.AggregatedRow
	for _, r := range Eligible(rows, minEntries) {
		if groupValue(r, q.GroupBy) == filter {
			selected = append(selected, r)
		}
	}
	return selected, filter
}

type seriesKey struct {
	date  time.Time
	label string
}

// Series sums the query metric per bucket date and group. Average RPE is the
// summed rpe divided by the summed sets.
func Series(rows []workouts.AggregatedRow, q Query, minEntries int) []Point {
	selected, _ := Selected(rows, q, minEntries)

	points := make(map[seriesKey]*Point)
	for _, r := range selected {
		date := r.WeekStart
		if q.Granularity == Monthly {
			date = r.MonthStart
		}
		key := seriesKey{date: date, label: groupValue(r, q.GroupBy)}
		p, ok := points[key]
		if !ok {
			p = &Point{Date: key.date, GroupLabel: key.label}
			points[key] = p
		}

		p.Sets += r.Sets
		switch q.Metric {
		case AvgRPE:
			p.Sum += r.SumRPE
		case TotalReps:
			p.Sum += float64(r.TotalReps)
		default:
			p.Sum += r.TotalVolume
		}
	}

	series := make([]Point, 0, len(points))
	for _, p := range points {
		p.Value = p.Sum
		if q.Metric == AvgRPE {
			p.Value = 0
			if p.Sets > 0 {
				p.Value = p.Sum / float64(p.Sets)
			}
		}
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool {
		if !series[i].Date.Equal(series[j].Date) {
			return series[i].Date.Before(series[j].Date)
		}
		return series[i].GroupLabel < series[j].GroupLabel
	})

	return series
}
