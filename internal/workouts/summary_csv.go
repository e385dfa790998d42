package workouts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

const summaryDateLayout = "2006-01-02"

// SummaryHeader is the header row of the persisted summary table.
var SummaryHeader = []string{
	"week_start",
	"month_start",
	"body_part",
	"workout_name",
	"exercise_name",
	"sets",
	"total_volume",
	"total_reps",
	"sum_rpe",
}

// WriteSummaryCSV writes the header and one line per row.
func WriteSummaryCSV(w io.Writer, rows []AggregatedRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(SummaryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.WeekStart.Format(summaryDateLayout),
			row.MonthStart.Format(summaryDateLayout),
			string(row.BodyPart),
			row.WorkoutName,
			row.ExerciseName,
			strconv.Itoa(row.Sets),
			formatFloat(row.TotalVolume),
			strconv.Itoa(row.TotalReps),
			formatFloat(row.SumRPE),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadSummaryCSV reads back a table written by WriteSummaryCSV.
func ReadSummaryCSV(r io.Reader) ([]AggregatedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(SummaryHeader)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header", ErrInvalidSummary)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrInvalidSummary, err)
	}
	for i, name := range SummaryHeader {
		if header[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, expected %q", ErrInvalidSummary, i, header[i], name)
		}
	}

	var rows []AggregatedRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSummary, err)
		}

		row, err := parseSummaryRecord(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidSummary, line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseSummaryRecord(record []string) (AggregatedRow, error) {
	weekStart, err := time.Parse(summaryDateLayout, record[0])
	if err != nil {
		return AggregatedRow{}, fmt.Errorf("week_start: %w", err)
	}
	monthStart, err := time.Parse(summaryDateLayout, record[1])
	if err != nil {
		return AggregatedRow{}, fmt.Errorf("month_start: %w", err)
	}
	sets, err := strconv.Atoi(record[5])
	if err != nil {
		return AggregatedRow{}, fmt.Errorf("sets: %w", err)
	}
	totalVolume, err := strconv.ParseFloat(record[6], 64)
	if err != nil {
		return AggregatedRow{}, fmt.Errorf("total_volume: %w", err)
	}
	totalReps, err := strconv.Atoi(record[7])
	if err != nil {
		return AggregatedRow{}, fmt.Errorf("total_reps: %w", err)
	}
	sumRPE, err := strconv.ParseFloat(record[8], 64)
	if err != nil {
		return AggregatedRow{}, fmt.Errorf("sum_rpe: %w", err)
	}

	return AggregatedRow{
		WeekStart:    weekStart,
		MonthStart:   monthStart,
		BodyPart:     BodyPart(record[2]),
		WorkoutName:  record[3],
		ExerciseName: record[4],
		Sets:         sets,
		TotalVolume:  totalVolume,
		TotalReps:    totalReps,
		SumRPE:       sumRPE,
	}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
