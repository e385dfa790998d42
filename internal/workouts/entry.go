package workouts

import "time"

// BodyPart is one of the fixed exercise categories.
// The zero value means the exercise is not classified.
type BodyPart string

const (
	BodyPartUnknown   BodyPart = ""
	BodyPartChest     BodyPart = "Chest"
	BodyPartBack      BodyPart = "Back"
	BodyPartLegs      BodyPart = "Legs"
	BodyPartArms      BodyPart = "Arms"
	BodyPartShoulders BodyPart = "Shoulders"
	BodyPartCore      BodyPart = "Core"
)

// BodyParts lists the closed set of categories, in display order.
var BodyParts = []BodyPart{
	BodyPartChest,
	BodyPartBack,
	BodyPartLegs,
	BodyPartArms,
	BodyPartShoulders,
	BodyPartCore,
}

// BodyRegion is the coarse Upper/Lower split derived from BodyPart.
type BodyRegion string

const (
	BodyRegionUnknown BodyRegion = ""
	BodyRegionUpper   BodyRegion = "Upper"
	BodyRegionLower   BodyRegion = "Lower"
)

// RawEntry is one set performed in one workout, as read from the export.
type RawEntry struct {
	WorkoutDate  time.Time `json:"workout_date"`
	WorkoutName  string    `json:"workout_name"`
	ExerciseName string    `json:"exercise_name"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	// RPE is nil when the set has no intensity rating.
	RPE      *float64 `json:"rpe"`
	SetOrder int      `json:"set_order"`
}

// Volume is weight x reps for the set.
func (e RawEntry) Volume() float64 {
	return e.Weight * float64(e.Reps)
}

// EnrichedEntry is a RawEntry after imputation, classification and bucketing.
type EnrichedEntry struct {
	WorkoutDate   time.Time  `json:"workout_date"`
	WorkoutName   string     `json:"workout_name"`
	ExerciseName  string     `json:"exercise_name"`
	Weight        float64    `json:"weight"`
	Reps          int        `json:"reps"`
	RPE           float64    `json:"rpe"`
	SetOrder      int        `json:"set_order"`
	Volume        float64    `json:"volume"`
	RPEWasImputed bool       `json:"rpe_was_imputed"`
	BodyPart      BodyPart   `json:"body_part"`
	BodyRegion    BodyRegion `json:"body_region"`
	WeekStart     time.Time  `json:"week_start"`
	MonthStart    time.Time  `json:"month_start"`
}

// GroupKey identifies one AggregatedRow.
type GroupKey struct {
	WeekStart    time.Time
	MonthStart   time.Time
	BodyPart     BodyPart
	WorkoutName  string
	ExerciseName string
}

// AggregatedRow is one row of the persisted summary table.
// SumRPE is a sum, not a mean: use MeanRPE to get the average intensity.
type AggregatedRow struct {
	WeekStart    time.Time `json:"week_start"`
	MonthStart   time.Time `json:"month_start"`
	BodyPart     BodyPart  `json:"body_part"`
	WorkoutName  string    `json:"workout_name"`
	ExerciseName string    `json:"exercise_name"`
	Sets         int       `json:"sets"`
	TotalVolume  float64   `json:"total_volume"`
	TotalReps    int       `json:"total_reps"`
	SumRPE       float64   `json:"sum_rpe"`
}

func (r AggregatedRow) Key() GroupKey {
	return GroupKey{
		WeekStart:    r.WeekStart,
		MonthStart:   r.MonthStart,
		BodyPart:     r.BodyPart,
		WorkoutName:  r.WorkoutName,
		ExerciseName: r.ExerciseName,
	}
}

// MeanRPE returns SumRPE / Sets, or 0 for an empty group.
func (r AggregatedRow) MeanRPE() float64 {
	if r.Sets == 0 {
		return 0
	}
	return r.SumRPE / float64(r.Sets)
}
