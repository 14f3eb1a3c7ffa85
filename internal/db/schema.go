package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The UNIQUE constraint on users.email is load-bearing: registration relies
// on the store rejecting duplicates instead of a check-then-insert.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('student', 'teacher')),
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS exercises (
	id                 TEXT PRIMARY KEY,
	title              TEXT NOT NULL,
	description        TEXT NOT NULL,
	exercise_type      TEXT NOT NULL CHECK (exercise_type IN ('word', 'phrase', 'listening')),
	content            TEXT NOT NULL,
	correct_audio_url  TEXT,
	difficulty         TEXT NOT NULL CHECK (difficulty IN ('easy', 'medium', 'hard')),
	teacher_id         TEXT NOT NULL REFERENCES users(id),
	vocabulary_list_id TEXT,
	created_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS progress (
	id                     TEXT PRIMARY KEY,
	student_id             TEXT NOT NULL REFERENCES users(id),
	exercise_id            TEXT NOT NULL,
	score                  DOUBLE PRECISION NOT NULL,
	pronunciation_accuracy DOUBLE PRECISION NOT NULL,
	feedback               TEXT,
	completed_at           TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS vocabulary_lists (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	teacher_id  TEXT NOT NULL REFERENCES users(id),
	words       TEXT[] NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_progress_student ON progress (student_id);
CREATE INDEX IF NOT EXISTS idx_progress_exercise ON progress (exercise_id);
CREATE INDEX IF NOT EXISTS idx_exercises_teacher ON exercises (teacher_id);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)

	return err
}
