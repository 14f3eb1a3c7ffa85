package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcarreira/lingohub/internal/config"
	"github.com/mcarreira/lingohub/internal/domain/user"
	"github.com/mcarreira/lingohub/internal/security"
)

// EnsureTeacherUser bootstraps one teacher account from env so a fresh
// deployment is usable without registering through the API first.
func EnsureTeacherUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.TeacherEmail == "" || cfg.TeacherPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.TeacherEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.TeacherPassword, cfg.BcryptCost)

	if err != nil {
		return err
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        cfg.TeacherEmail,
		Name:         cfg.TeacherName,
		Role:         user.RoleTeacher,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, name, role, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		`,
		u.ID, u.Email, u.Name, u.Role, u.PasswordHash, u.CreatedAt,
	)

	return err
}
