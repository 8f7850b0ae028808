// Package repository provides credential lookups for the auth module.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no user exists for the given email.
var ErrNotFound = errors.New("user not found")

// User carries the fields needed to verify credentials and mint a token.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         *string
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userByEmailQuery = `
	SELECT id, email, password_hash, role
	FROM users
	WHERE lower(email) = lower($1)
`

// GetUserByEmail loads the credential record for a login attempt.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, userByEmailQuery, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}
