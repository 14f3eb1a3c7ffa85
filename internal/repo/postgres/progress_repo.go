package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcarreira/lingohub/internal/domain/progress"
	"github.com/mcarreira/lingohub/internal/observability"
)

type ProgressRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProgressRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProgressRepo {
	return &ProgressRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProgressRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ProgressRepo) Create(ctx context.Context, p progress.Progress) error {
	return r.observe("progress.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO progress(id, student_id, exercise_id, score, pronunciation_accuracy, feedback, completed_at)
			 VALUES($1,$2,$3,$4,$5,$6,$7)`,
			p.ID, p.StudentID, p.ExerciseID, p.Score, p.PronunciationAccuracy, p.Feedback, p.CompletedAt)

		return err
	})
}

func (r *ProgressRepo) ListByStudent(ctx context.Context, studentID string) ([]progress.Progress, error) {
	return r.list(ctx, "progress.list_by_student",
		`SELECT id, student_id, exercise_id, score, pronunciation_accuracy, feedback, completed_at
		 FROM progress
		 WHERE student_id = $1
		 ORDER BY completed_at DESC, id ASC`, studentID)
}

func (r *ProgressRepo) ListByExercise(ctx context.Context, exerciseID string) ([]progress.Progress, error) {
	return r.list(ctx, "progress.list_by_exercise",
		`SELECT id, student_id, exercise_id, score, pronunciation_accuracy, feedback, completed_at
		 FROM progress
		 WHERE exercise_id = $1
		 ORDER BY completed_at DESC, id ASC`, exerciseID)
}

func (r *ProgressRepo) ListAll(ctx context.Context) ([]progress.Progress, error) {
	return r.list(ctx, "progress.list_all",
		`SELECT id, student_id, exercise_id, score, pronunciation_accuracy, feedback, completed_at
		 FROM progress
		 ORDER BY completed_at DESC, id ASC`)
}

func (r *ProgressRepo) list(ctx context.Context, op, query string, args ...interface{}) ([]progress.Progress, error) {
	output := make([]progress.Progress, 0)

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var p progress.Progress

			err = rows.Scan(&p.ID, &p.StudentID, &p.ExerciseID, &p.Score, &p.PronunciationAccuracy, &p.Feedback, &p.CompletedAt)

			if err != nil {
				return err
			}

			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}
