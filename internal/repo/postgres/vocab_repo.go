package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcarreira/lingohub/internal/domain/vocab"
	"github.com/mcarreira/lingohub/internal/observability"
)

type VocabListsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewVocabListsRepo(pool *pgxpool.Pool, prom *observability.Prom) *VocabListsRepo {
	return &VocabListsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *VocabListsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *VocabListsRepo) Create(ctx context.Context, vl vocab.VocabularyList) error {
	return r.observe("vocab_lists.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO vocabulary_lists(id, name, description, teacher_id, words, created_at)
			 VALUES($1,$2,$3,$4,$5,$6)`,
			vl.ID, vl.Name, vl.Description, vl.TeacherID, vl.Words, vl.CreatedAt)

		return err
	})
}

func (r *VocabListsRepo) List(ctx context.Context) ([]vocab.VocabularyList, error) {
	output := make([]vocab.VocabularyList, 0)

	err := r.observe("vocab_lists.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, name, description, teacher_id, words, created_at
			 FROM vocabulary_lists
			 ORDER BY created_at ASC, id ASC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var vl vocab.VocabularyList

			err = rows.Scan(&vl.ID, &vl.Name, &vl.Description, &vl.TeacherID, &vl.Words, &vl.CreatedAt)

			if err != nil {
				return err
			}

			output = append(output, vl)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}
