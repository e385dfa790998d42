package summaries

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/workoutdash/internal/telemetry/tracing"
	"github.com/2beens/workoutdash/internal/workouts"
	"github.com/2beens/workoutdash/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNoSummary = errors.New("summary table not created yet")

const tableName = "workout_summary"

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS public.workout_summary
(
    run_id        VARCHAR          NOT NULL,
    week_start    DATE             NOT NULL,
    month_start   DATE             NOT NULL,
    body_part     VARCHAR          NOT NULL DEFAULT '',
    workout_name  VARCHAR          NOT NULL,
    exercise_name VARCHAR          NOT NULL,
    sets          INTEGER          NOT NULL,
    total_volume  DOUBLE PRECISION NOT NULL,
    total_reps    INTEGER          NOT NULL,
    sum_rpe       DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (week_start, month_start, body_part, workout_name, exercise_name)
);
`

var columns = []string{
	"run_id", "week_start", "month_start", "body_part", "workout_name",
	"exercise_name", "sets", "total_volume", "total_reps", "sum_rpe",
}

// Repo mirrors the latest summary table in postgres.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("create summary table: %w", err)
	}
	return nil
}

// ReplaceAll swaps the table content for rows in a single transaction.
func (r *Repo) ReplaceAll(ctx context.Context, runID string, rows []workouts.AggregatedRow) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.summaries.replaceAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.Int("rows", len(rows)),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Errorf("summaries: rollback: %s", rbErr)
			}
		}
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM workout_summary`)
	if err != nil {
		return fmt.Errorf("delete previous summary: %w", err)
	}
	log.Debugf("summaries: deleted %d previous rows", tag.RowsAffected())

	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{tableName},
		columns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				runID,
				row.WeekStart,
				row.MonthStart,
				string(row.BodyPart),
				row.WorkoutName,
				row.ExerciseName,
				row.Sets,
				row.TotalVolume,
				row.TotalReps,
				row.SumRPE,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy summary rows: %w", err)
	}
	if int(copied) != len(rows) {
		return fmt.Errorf("copied %d of %d summary rows", copied, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListAll returns the stored rows in summary table order.
func (r *Repo) ListAll(ctx context.Context) (_ []workouts.AggregatedRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.summaries.listAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	dbRows, err := r.db.Query(
		ctx,
		`SELECT week_start, month_start, body_part, workout_name, exercise_name,
				sets, total_volume, total_reps, sum_rpe
			FROM workout_summary;`,
	)
	if err != nil {
		if pkg.IsUndefinedTableError(err) {
			return nil, ErrNoSummary
		}
		return nil, err
	}
	defer dbRows.Close()

	var rows []workouts.AggregatedRow
	for dbRows.Next() {
		var row workouts.AggregatedRow
		var bodyPart string
		if err := dbRows.Scan(
			&row.WeekStart,
			&row.MonthStart,
			&bodyPart,
			&row.WorkoutName,
			&row.ExerciseName,
			&row.Sets,
			&row.TotalVolume,
			&row.TotalReps,
			&row.SumRPE,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		row.BodyPart = workouts.BodyPart(bodyPart)
		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		if pkg.IsUndefinedTableError(err) {
			return nil, ErrNoSummary
		}
		return nil, err
	}

	// collation order in postgres differs from byte order
	workouts.SortRows(rows)
	span.SetAttributes(attribute.Int("rows", len(rows)))

	return rows, nil
}
