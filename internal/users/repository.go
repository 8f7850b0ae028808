// Package users exposes the backend user profile consumed by the admin UI
// after a session is established.
package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no user is registered for the given email.
var ErrNotFound = errors.New("user not found")

// Organization is the tenant a user belongs to.
type Organization struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// User is the profile record returned by the profile endpoint.
// Organization is nil for authenticated-but-unaffiliated users.
type User struct {
	ID           uuid.UUID     `json:"id"`
	Name         *string       `json:"name"`
	Email        string        `json:"email"`
	Role         *string       `json:"role"`
	Organization *Organization `json:"organization,omitempty"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userByEmailQuery = `
	SELECT u.id, u.name, u.email, u.role, o.id, o.name
	FROM users u
	LEFT JOIN organizations o ON o.id = u.org_id
	WHERE lower(u.email) = lower($1)
`

// GetByEmail loads a user profile with its organization, when present.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	var (
		user    User
		orgID   *uuid.UUID
		orgName *string
	)
	err := r.pool.QueryRow(ctx, userByEmailQuery, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &orgID, &orgName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}

	if orgID != nil && orgName != nil {
		user.Organization = &Organization{ID: *orgID, Name: *orgName}
	}

	return user, nil
}
