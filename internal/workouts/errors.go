package workouts

import "errors"

var (
	// ErrMissingColumn is returned when the export lacks a required header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnparseableDate is fatal for a run: a kept row cannot be bucketed.
	ErrUnparseableDate = errors.New("unparseable workout date")
	// ErrInvalidSummary is returned when a persisted summary table cannot be read back.
	ErrInvalidSummary = errors.New("invalid summary table")
)
