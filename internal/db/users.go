package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/userhub/backend/internal/model"
)

func (db *Postgres) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			password_salt TEXT NOT NULL,
			created_by UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_by UUID NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS users_email_idx ON users(email)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

const userColumns = `id, first_name, last_name, email, password_hash, password_salt, created_by, created_at, updated_by, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordSalt,
		&user.CreatedBy,
		&user.CreatedAt,
		&user.UpdatedBy,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) GetAllUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (db *Postgres) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, userID))
}

// FindSaltByEmail returns the stored per-record salt so the caller can
// recompute the digest before a credentials lookup.
func (db *Postgres) FindSaltByEmail(ctx context.Context, email string) (string, error) {
	query := `SELECT password_salt FROM users WHERE email = $1`

	var salt string
	if err := db.Pool.QueryRow(ctx, query, email).Scan(&salt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return salt, nil
}

// FindByCredentials matches email and password digest together, so a bad
// digest is indistinguishable from an unknown email.
func (db *Postgres) FindByCredentials(ctx context.Context, email, digest string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND password_hash = $2`
	return scanUser(db.Pool.QueryRow(ctx, query, email, digest))
}

func (db *Postgres) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash, password_salt, created_by, created_at, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8, NOW())
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.PasswordSalt,
		user.CreatedBy,
		user.UpdatedBy,
	))
}

func (db *Postgres) UpdateUser(ctx context.Context, userID, firstName, lastName, email, updatedBy string) (*model.User, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, updated_by = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query, userID, firstName, lastName, email, updatedBy))
}

func (db *Postgres) DeleteUser(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE id = $1`

	tag, err := db.Pool.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
