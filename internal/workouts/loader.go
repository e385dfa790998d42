package workouts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// export column headers
const (
	ColumnDate         = "Date"
	ColumnWorkoutName  = "Workout Name"
	ColumnExerciseName = "Exercise Name"
	ColumnWeight       = "Weight"
	ColumnReps         = "Reps"
	ColumnRPE          = "RPE"
	ColumnSetOrder     = "Set Order"
)

// MaxRPE is the top of the intensity scale; ratings outside [0, MaxRPE] count as absent.
const MaxRPE = 10.0

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

type LoadStats struct {
	RowsRead    int `json:"rows_read"`
	RowsLoaded  int `json:"rows_loaded"`
	RowsDropped int `json:"rows_dropped"`
}

type Loader struct {
	comma rune
}

// NewLoader creates a loader for a delimited export. A zero comma means ','.
func NewLoader(comma rune) *Loader {
	if comma == 0 {
		comma = ','
	}
	return &Loader{
		comma: comma,
	}
}

type columnIndexes struct {
	date         int
	workoutName  int
	exerciseName int
	weight       int
	reps         int
	rpe          int // -1 when the export has no RPE column
	setOrder     int
}

func resolveColumns(header []string) (columnIndexes, error) {
	find := func(name string) int {
		for i, h := range header {
			h = strings.TrimPrefix(h, "\ufeff")
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	cols := columnIndexes{
		date:         find(ColumnDate),
		workoutName:  find(ColumnWorkoutName),
		exerciseName: find(ColumnExerciseName),
		weight:       find(ColumnWeight),
		reps:         find(ColumnReps),
		rpe:          find(ColumnRPE),
		setOrder:     find(ColumnSetOrder),
	}

	required := map[string]int{
		ColumnDate:         cols.date,
		ColumnWorkoutName:  cols.workoutName,
		ColumnExerciseName: cols.exerciseName,
		ColumnWeight:       cols.weight,
		ColumnReps:         cols.reps,
		ColumnSetOrder:     cols.setOrder,
	}
	var missing []string
	for _, name := range []string{ColumnDate, ColumnWorkoutName, ColumnExerciseName, ColumnWeight, ColumnReps, ColumnSetOrder} {
		if required[name] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return cols, nil
}

// Load reads the export and returns the rows that have weight, reps and set order.
// Malformed rows are dropped and counted. An unparseable date on a kept row is fatal.
func (l *Loader) Load(r io.Reader) ([]RawEntry, LoadStats, error) {
	var stats LoadStats

	reader := csv.NewReader(r)
	reader.Comma = l.comma
	reader.FieldsPerRecord = -1
	// free-text columns (notes) carry stray quotes
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, stats, fmt.Errorf("%w: empty export", ErrMissingColumn)
	}
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, stats, err
	}

	var entries []RawEntry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			log.Tracef("loader: dropping unparseable row: %s", parseErr)
			stats.RowsRead++
			stats.RowsDropped++
			continue
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read record: %w", err)
		}
		stats.RowsRead++

		line, _ := reader.FieldPos(0)
		entry, ok, err := parseRecord(record, cols)
		if err != nil {
			return nil, stats, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			log.Tracef("loader: dropping malformed row at line %d: %v", line, record)
			stats.RowsDropped++
			continue
		}

		entries = append(entries, entry)
	}

	stats.RowsLoaded = len(entries)
	log.Debugf("loader: read %d rows, loaded %d, dropped %d", stats.RowsRead, stats.RowsLoaded, stats.RowsDropped)

	return entries, stats, nil
}

func parseRecord(record []string, cols columnIndexes) (RawEntry, bool, error) {
	weight, ok := parseFloat(field(record, cols.weight))
	if !ok || weight < 0 {
		return RawEntry{}, false, nil
	}
	reps, ok := parseInt(field(record, cols.reps))
	if !ok || reps < 0 {
		return RawEntry{}, false, nil
	}
	setOrder, ok := parseInt(field(record, cols.setOrder))
	if !ok {
		return RawEntry{}, false, nil
	}

	rawDate := field(record, cols.date)
	workoutDate, err := ParseDate(rawDate)
	if err != nil {
		return RawEntry{}, false, err
	}

	entry := RawEntry{
		WorkoutDate:  workoutDate,
		WorkoutName:  strings.TrimSpace(field(record, cols.workoutName)),
		ExerciseName: strings.TrimSpace(field(record, cols.exerciseName)),
		Weight:       weight,
		Reps:         reps,
		SetOrder:     setOrder,
	}
	if rpe, ok := parseFloat(field(record, cols.rpe)); ok && rpe >= 0 && rpe <= MaxRPE {
		entry.RPE = &rpe
	}

	return entry, true, nil
}

// ParseDate parses a workout date in any of the accepted export layouts.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnparseableDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, value)
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseFloat(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseInt accepts integer text and integral float text ("5.0").
func parseInt(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i, true
	}
	f, ok := parseFloat(value)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
