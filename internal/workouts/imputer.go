package workouts

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultRPE is the last-resort intensity for sets that no observed rating can reach.
const DefaultRPE = 7.0

type ImputeStats struct {
	Missing        int `json:"missing"`
	FilledSameLift int `json:"filled_same_lift"`
	FilledSameDay  int `json:"filled_same_day"`
	FilledDefault  int `json:"filled_default"`
}

// ImputeRPE assigns every entry an intensity and returns them, in input order,
// as EnrichedEntry values with volume and the imputation flag set.
//
// Missing ratings are filled in three passes, each one only touching what is still missing:
//  1. carry forward the last rating of the same (exercise, weight, reps), ordered by date
//  2. forward then backward fill within the same workout date
//  3. defaultRPE
//
// Pass 1 and 2 walk the entries sorted by (exercise, weight, reps, date) with a stable
// sort, so ties on date keep the export order.
func ImputeRPE(entries []RawEntry, defaultRPE float64) ([]EnrichedEntry, ImputeStats) {
	var stats ImputeStats

	n := len(entries)
	values := make([]float64, n)
	filled := make([]bool, n)
	for i, e := range entries {
		if e.RPE != nil {
			values[i] = *e.RPE
			filled[i] = true
		} else {
			stats.Missing++
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := entries[order[a]], entries[order[b]]
		if ea.ExerciseName != eb.ExerciseName {
			return ea.ExerciseName < eb.ExerciseName
		}
		if ea.Weight != eb.Weight {
			return ea.Weight < eb.Weight
		}
		if ea.Reps != eb.Reps {
			return ea.Reps < eb.Reps
		}
		return ea.WorkoutDate.Before(eb.WorkoutDate)
	})

	// pass 1: same lift carry-forward
	for start := 0; start < n; {
		end := start
		for end < n && sameLift(entries[order[start]], entries[order[end]]) {
			end++
		}
		stats.FilledSameLift += forwardFill(order[start:end], values, filled)
		start = end
	}

	// pass 2: same day, forward then backward
	dayGroups := make(map[time.Time][]int)
	var days []time.Time
	for _, idx := range order {
		day := entries[idx].WorkoutDate.UTC()
		if _, ok := dayGroups[day]; !ok {
			days = append(days, day)
		}
		dayGroups[day] = append(dayGroups[day], idx)
	}
	for _, day := range days {
		group := dayGroups[day]
		stats.FilledSameDay += forwardFill(group, values, filled)
		stats.FilledSameDay += backwardFill(group, values, filled)
	}

	// pass 3: global default
	for i := range values {
		if !filled[i] {
			values[i] = defaultRPE
			filled[i] = true
			stats.FilledDefault++
		}
	}

	log.Debugf(
		"imputer: %d missing rpe values, filled %d same lift, %d same day, %d default",
		stats.Missing, stats.FilledSameLift, stats.FilledSameDay, stats.FilledDefault,
	)

	enriched := make([]EnrichedEntry, n)
	for i, e := range entries {
		enriched[i] = EnrichedEntry{
			WorkoutDate:   e.WorkoutDate,
			WorkoutName:   e.WorkoutName,
			ExerciseName:  e.ExerciseName,
			Weight:        e.Weight,
			Reps:          e.Reps,
			RPE:           values[i],
			SetOrder:      e.SetOrder,
			Volume:        e.Volume(),
			RPEWasImputed: e.RPE == nil,
		}
	}

	return enriched, stats
}

func sameLift(a, b RawEntry) bool {
	return a.ExerciseName == b.ExerciseName && a.Weight == b.Weight && a.Reps == b.Reps
}

// forwardFill walks idxs in order, filling gaps with the last known value.
func forwardFill(idxs []int, values []float64, filled []bool) int {
	count := 0
	var last float64
	seen := false
	for _, idx := range idxs {
		if filled[idx] {
			last = values[idx]
			seen = true
			continue
		}
		if seen {
			values[idx] = last
			filled[idx] = true
			count++
		}
	}
	return count
}

func backwardFill(idxs []int, values []float64, filled []bool) int {
	count := 0
	var next float64
	seen := false
	for i := len(idxs) - 1; i >= 0; i-- {
		idx := idxs[i]
		if filled[idx] {
			next = values[idx]
			seen = true
			continue
		}
		if seen {
			values[idx] = next
			filled[idx] = true
			count++
		}
	}
	return count
}
