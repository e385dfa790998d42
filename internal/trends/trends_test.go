package trends_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/2beens/workoutdash/internal/trends"
	"github.com/2beens/workoutdash/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func row(week time.Time, bp workouts.BodyPart, exercise string, sets int, volume float64, reps int, sumRPE float64) workouts.AggregatedRow {
	return workouts.AggregatedRow{
		WeekStart:    week,
		MonthStart:   time.Date(week.Year(), week.Month(), 1, 0, 0, 0, 0, time.UTC),
		BodyPart:     bp,
		WorkoutName:  "Full Body",
		ExerciseName: exercise,
		Sets:         sets,
		TotalVolume:  volume,
		TotalReps:    reps,
		SumRPE:       sumRPE,
	}
}

func testRows() []workouts.AggregatedRow {
	return []workouts.AggregatedRow{
		row(day(2024, 1, 1), workouts.BodyPartChest, "Bench Press", 10, 5000, 50, 80),
		row(day(2024, 1, 8), workouts.BodyPartChest, "Bench Press", 10, 5500, 50, 85),
		row(day(2024, 2, 5), workouts.BodyPartChest, "Bench Press", 5, 3000, 25, 45),
		row(day(2024, 1, 1), workouts.BodyPartLegs, "Squat", 12, 8400, 60, 96),
		row(day(2024, 1, 29), workouts.BodyPartLegs, "Squat", 13, 9100, 65, 104),
		// below the eligibility threshold
		row(day(2024, 1, 1), workouts.BodyPartChest, "Cable Fly", 3, 600, 36, 21),
		row(day(2024, 1, 1), workouts.BodyPartUnknown, "Mystery Machine", 30, 3000, 300, 210),
	}
}

func TestEligible(t *testing.T) {
	rows := testRows()
	eligible := trends.Eligible(rows, trends.DefaultMinExerciseEntries)

	var names []string
	for _, r := range eligible {
		names = append(names, r.ExerciseName)
	}
	assert.Equal(t, []string{"Bench Press", "Bench Press", "Bench Press", "Squat", "Squat", "Mystery Machine"}, names)
	// stored rows are untouched
	assert.Len(t, rows, 7)
}

func TestFilterOptions(t *testing.T) {
	rows := testRows()
	assert.Equal(t,
		[]string{"Bench Press", "Mystery Machine", "Squat"},
		trends.FilterOptions(rows, trends.ByExercise, trends.DefaultMinExerciseEntries),
	)
	// unclassified rows do not offer an empty option
	assert.Equal(t,
		[]string{"Chest", "Legs"},
		trends.FilterOptions(rows, trends.ByBodyPart, trends.DefaultMinExerciseEntries),
	)
	assert.Empty(t, trends.FilterOptions(nil, trends.ByExercise, trends.DefaultMinExerciseEntries))
}

func TestSeries_WeeklyVolume(t *testing.T) {
	points := trends.Series(testRows(), trends.Query{
		Granularity: trends.Weekly,
		Metric:      trends.TotalVolume,
		GroupBy:     trends.ByExercise,
		Filter:      "Bench Press",
	}, trends.DefaultMinExerciseEntries)

	require.Len(t, points, 3)
	assert.Equal(t, day(2024, 1, 1), points[0].Date)
	assert.Equal(t, "Bench Press", points[0].GroupLabel)
	assert.Equal(t, 5000.0, points[0].Value)
	assert.Equal(t, 5500.0, points[1].Value)
	assert.Equal(t, 3000.0, points[2].Value)
}

func TestSeries_MonthlyAvgRPEByBodyPart(t *testing.T) {
	points := trends.Series(testRows(), trends.Query{
		Granularity: trends.Monthly,
		Metric:      trends.AvgRPE,
		GroupBy:     trends.ByBodyPart,
		Filter:      "Chest",
	}, trends.DefaultMinExerciseEntries)

	require.Len(t, points, 2)
	// January: (80 + 85) / 20, Cable Fly is not eligible
	assert.Equal(t, day(2024, 1, 1), points[0].Date)
	assert.Equal(t, 20, points[0].Sets)
	assert.InDelta(t, 8.25, points[0].Value, 1e-9)
	assert.Equal(t, day(2024, 2, 1), points[1].Date)
	assert.InDelta(t, 9.0, points[1].Value, 1e-9)
}

func TestSeries_DefaultFilterIsFirstOption(t *testing.T) {
	points := trends.Series(testRows(), trends.Query{
		Granularity: trends.Monthly,
		Metric:      trends.TotalReps,
		GroupBy:     trends.ByExercise,
	}, trends.DefaultMinExerciseEntries)

	require.Len(t, points, 2)
	assert.Equal(t, "Bench Press", points[0].GroupLabel)
	assert.Equal(t, 100.0, points[0].Value)
	assert.Equal(t, 25.0, points[1].Value)

	assert.Empty(t, trends.Series(nil, trends.Query{}.WithDefaults(), trends.DefaultMinExerciseEntries))
}

func TestQuery_Validate(t *testing.T) {
	require.NoError(t, trends.Query{}.WithDefaults().Validate())

	err := trends.Query{Granularity: "daily", Metric: trends.TotalVolume, GroupBy: trends.ByExercise}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, trends.ErrInvalidQuery))

	err = trends.Query{Granularity: trends.Weekly, Metric: "max_weight", GroupBy: trends.ByExercise}.Validate()
	assert.True(t, errors.Is(err, trends.ErrInvalidQuery))

	err = trends.Query{Granularity: trends.Weekly, Metric: trends.AvgRPE, GroupBy: "workout_name"}.Validate()
	assert.True(t, errors.Is(err, trends.ErrInvalidQuery))
}

func TestTrend(t *testing.T) {
	points := []trends.Point{
		{Date: day(2024, 1, 1), Value: 100},
		{Date: day(2024, 1, 8), Value: 114},
		{Date: day(2024, 1, 15), Value: 128},
	}
	line := trends.Trend(points)
	assert.InDelta(t, 2.0, line.SlopePerDay, 1e-9)
	assert.InDelta(t, 100.0, line.Intercept, 1e-9)
	assert.Equal(t, "up", line.Direction())

	line = trends.Trend(points[:1])
	assert.Equal(t, "flat", line.Direction())
	assert.Equal(t, 100.0, line.Intercept)

	line = trends.Trend([]trends.Point{{Date: day(2024, 1, 1), Value: 10}, {Date: day(2024, 1, 8), Value: 3}})
	assert.Equal(t, "down", line.Direction())

	assert.Equal(t, "flat", trends.Trend(nil).Direction())
}

func TestRenderChart(t *testing.T) {
	q := trends.Query{Granularity: trends.Weekly, Metric: trends.TotalVolume, GroupBy: trends.ByExercise, Filter: "Bench Press"}
	points := trends.Series(testRows(), q, trends.DefaultMinExerciseEntries)

	var buf bytes.Buffer
	require.NoError(t, trends.RenderChart(&buf, points, q))
	html := buf.String()
	assert.Contains(t, html, "Total Volume Over Time (Weekly)")
	assert.Contains(t, html, "2024-01-08")
	assert.Contains(t, html, "Bench Press")
}
