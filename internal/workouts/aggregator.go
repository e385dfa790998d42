package workouts

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

// Aggregate groups entries by (week, month, body part, workout, exercise) and sums
// sets, volume, reps and rpe per group. Entries without a body part are grouped
// under the empty body part. Rows are returned sorted by key.
func Aggregate(entries []EnrichedEntry) []AggregatedRow {
	groups := make(map[GroupKey]*AggregatedRow)
	for _, e := range entries {
		key := GroupKey{
			WeekStart:    e.WeekStart,
			MonthStart:   e.MonthStart,
			BodyPart:     e.BodyPart,
			WorkoutName:  e.WorkoutName,
			ExerciseName: e.ExerciseName,
		}
		row, ok := groups[key]
		if !ok {
			row = &AggregatedRow{
				WeekStart:    key.WeekStart,
				MonthStart:   key.MonthStart,
				BodyPart:     key.BodyPart,
				WorkoutName:  key.WorkoutName,
				ExerciseName: key.ExerciseName,
			}
			groups[key] = row
		}
		row.Sets++
		row.TotalVolume += e.Volume
		row.TotalReps += e.Reps
		row.SumRPE += e.RPE
	}

	rows := make([]AggregatedRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	SortRows(rows)

	log.Debugf("aggregator: %d entries aggregated into %d rows", len(entries), len(rows))

	return rows
}

// SortRows orders rows by their group key.
func SortRows(rows []AggregatedRow) {
	sort.Slice(rows, func(i, j int) bool {
		return keyLess(rows[i].Key(), rows[j].Key())
	})
}

func keyLess(a, b GroupKey) bool {
	if !a.WeekStart.Equal(b.WeekStart) {
		return a.WeekStart.Before(b.WeekStart)
	}
	if !a.MonthStart.Equal(b.MonthStart) {
		return a.MonthStart.Before(b.MonthStart)
	}
	if a.BodyPart != b.BodyPart {
		return a.BodyPart < b.BodyPart
	}
	if a.WorkoutName != b.WorkoutName {
		return a.WorkoutName < b.WorkoutName
	}
	return a.ExerciseName < b.ExerciseName
}
