package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/2beens/workoutdash/internal/trends"
	"github.com/2beens/workoutdash/internal/workouts"
)

const dateLayout = "2006-01-02"

const promptTemplate = `
You are a strength coach AI analyzing training performance. Your job is to look at the user's workout trends.

Here is the filtered view the user is analyzing:
%s

Here is the full dataset for additional context:
%s

Provide performance insights based on the trends shown. Call out things like:
- increases or decreases in volume or RPE
- potential reasons (e.g. high RPE elsewhere, increased reps)
- suggestions (e.g. increase weight, adjust intensity)
Be specific and refer to the exercise(s) in the view.
`

type rowRecord struct {
	WeekStart    string  `json:"week_start"`
	MonthStart   string  `json:"month_start"`
	BodyPart     *string `json:"body_part"`
	WorkoutName  string  `json:"workout_name"`
	ExerciseName string  `json:"exercise_name"`
	Sets         int     `json:"sets"`
	TotalVolume  float64 `json:"total_volume"`
	TotalReps    int     `json:"total_reps"`
	SumRPE       float64 `json:"sum_rpe"`
}

type pointRecord struct {
	Date        string  `json:"date"`
	GroupLabel  string  `json:"group_label"`
	Sets        int     `json:"sets"`
	MetricValue float64 `json:"metric_value"`
}

func rowRecords(rows []workouts.AggregatedRow) []rowRecord {
	records := make([]rowRecord, 0, len(rows))
	for _, r := range rows {
		rec := rowRecord{
			WeekStart:    r.WeekStart.Format(dateLayout),
			MonthStart:   r.MonthStart.Format(dateLayout),
			WorkoutName:  r.WorkoutName,
			ExerciseName: r.ExerciseName,
			Sets:         r.Sets,
			TotalVolume:  r.TotalVolume,
			TotalReps:    r.TotalReps,
			SumRPE:       r.SumRPE,
		}
		// unclassified is null, not ""
		if r.BodyPart != workouts.BodyPartUnknown {
			bp := string(r.BodyPart)
			rec.BodyPart = &bp
		}
		records = append(records, rec)
	}
	return records
}

func pointRecords(points []trends.Point) []pointRecord {
	records := make([]pointRecord, 0, len(points))
	for _, p := range points {
		records = append(records, pointRecord{
			Date:        p.Date.Format(dateLayout),
			GroupLabel:  p.GroupLabel,
			Sets:        p.Sets,
			MetricValue: p.Value,
		})
	}
	return records
}

func buildPrompt(focus, full any) (string, error) {
	focusJson, err := json.MarshalIndent(focus, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal focus view: %w", err)
	}
	fullJson, err := json.MarshalIndent(full, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal full view: %w", err)
	}
	return fmt.Sprintf(promptTemplate, focusJson, fullJson), nil
}

// BuildPrompt asks for a narrative on the trend series the user looks at,
// with the summary rows behind it as context.
func BuildPrompt(focus []trends.Point, full []workouts.AggregatedRow) (string, error) {
	return buildPrompt(pointRecords(focus), rowRecords(full))
}

// BuildRowsPrompt is BuildPrompt for a focus view made of summary rows.
func BuildRowsPrompt(focus, full []workouts.AggregatedRow) (string, error) {
	return buildPrompt(rowRecords(focus), rowRecords(full))
}

// Excerpt shortens s for logging.
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
