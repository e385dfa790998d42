package workouts

import "time"

// WeekStart returns the Monday of the ISO week containing t, as UTC midnight.
// The calendar date is taken in t's own location.
func WeekStart(t time.Time) time.Time {
	day := calendarDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	return day.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of t's month, as UTC midnight.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Bucket sets the week and month start of every entry.
func Bucket(entries []EnrichedEntry) {
	for i := range entries {
		entries[i].WeekStart = WeekStart(entries[i].WorkoutDate)
		entries[i].MonthStart = MonthStart(entries[i].WorkoutDate)
	}
}
