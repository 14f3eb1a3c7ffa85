package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcarreira/lingohub/internal/domain/exercise"
	"github.com/mcarreira/lingohub/internal/observability"
)

type ExercisesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewExercisesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ExercisesRepo {
	return &ExercisesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ExercisesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ExercisesRepo) Create(ctx context.Context, e exercise.Exercise) error {
	return r.observe("exercises.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO exercises(id, title, description, exercise_type, content, correct_audio_url, difficulty, teacher_id, vocabulary_list_id, created_at)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			e.ID, e.Title, e.Description, e.ExerciseType, e.Content, e.CorrectAudioURL, e.Difficulty, e.TeacherID, e.VocabularyListID, e.CreatedAt)

		return err
	})
}

func (r *ExercisesRepo) List(ctx context.Context) ([]exercise.Exercise, error) {
	output := make([]exercise.Exercise, 0)

	err := r.observe("exercises.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, title, description, exercise_type, content, correct_audio_url, difficulty, teacher_id, vocabulary_list_id, created_at
			 FROM exercises
			 ORDER BY created_at ASC, id ASC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var e exercise.Exercise

			err = rows.Scan(&e.ID, &e.Title, &e.Description, &e.ExerciseType, &e.Content, &e.CorrectAudioURL, &e.Difficulty, &e.TeacherID, &e.VocabularyListID, &e.CreatedAt)

			if err != nil {
				return err
			}

			output = append(output, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *ExercisesRepo) GetByID(ctx context.Context, id string) (exercise.Exercise, error) {
	var e exercise.Exercise

	err := r.observe("exercises.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, description, exercise_type, content, correct_audio_url, difficulty, teacher_id, vocabulary_list_id, created_at
			 FROM exercises WHERE id = $1`, id,
		).Scan(&e.ID, &e.Title, &e.Description, &e.ExerciseType, &e.Content, &e.CorrectAudioURL, &e.Difficulty, &e.TeacherID, &e.VocabularyListID, &e.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exercise.Exercise{}, exercise.ErrNotFound
		}

		return exercise.Exercise{}, err
	}

	return e, nil
}

func (r *ExercisesRepo) Update(ctx context.Context, id string, req exercise.CreateExerciseRequest) (exercise.Exercise, error) {
	var e exercise.Exercise

	err := r.observe("exercises.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE exercises
				SET title = $2,
						description = $3,
						exercise_type = $4,
						content = $5,
						correct_audio_url = $6,
						difficulty = $7,
						vocabulary_list_id = $8
			WHERE id = $1
			RETURNING id, title, description, exercise_type, content, correct_audio_url, difficulty, teacher_id, vocabulary_list_id, created_at`,
			id,
			req.Title,
			req.Description,
			req.ExerciseType,
			req.Content,
			req.CorrectAudioURL,
			req.Difficulty,
			req.VocabularyListID,
		).Scan(
			&e.ID,
			&e.Title,
			&e.Description,
			&e.ExerciseType,
			&e.Content,
			&e.CorrectAudioURL,
			&e.Difficulty,
			&e.TeacherID,
			&e.VocabularyListID,
			&e.CreatedAt,
		)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return exercise.Exercise{}, exercise.ErrNotFound
		}

		return exercise.Exercise{}, err
	}

	return e, nil
}

// DeleteOwned deletes only when the exercise belongs to teacherID. A missing
// row and a foreign row are indistinguishable here, matching the API contract
// (both report not found).
func (r *ExercisesRepo) DeleteOwned(ctx context.Context, id, teacherID string) error {
	var affected int64

	err := r.observe("exercises.delete", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM exercises WHERE id = $1 AND teacher_id = $2`, id, teacherID)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return exercise.ErrNotFound
	}

	return nil
}

func (r *ExercisesRepo) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	var n int

	err := r.observe("exercises.count_by_teacher", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM exercises WHERE teacher_id = $1`, teacherID).Scan(&n)
	})

	if err != nil {
		return 0, err
	}

	return n, nil
}
