// Package service implements credential verification and access token issuance.
package service

import (
	"context"
	"errors"
	"time"

	"participant_portal_backend/internal/auth/repository"
	"participant_portal_backend/platform/apperr"
	"participant_portal_backend/platform/config"
	"participant_portal_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "invalid email or password"

// Credentials is the verified login input.
type Credentials struct {
	Email    string
	Password string
}

// LoginResult is the successful login payload.
type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
}

// UserReader loads credential records. Implemented by the auth repository.
type UserReader interface {
	GetUserByEmail(ctx context.Context, email string) (repository.User, error)
}

type Service struct {
	repo UserReader
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo UserReader, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies the credentials and returns a signed access token carrying
// the user id, session email, and role claims the middleware expects.
func (s *Service) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, creds.Email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.AuthEvent("login", creds.Email, false, "unknown email")
		return LoginResult{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		s.log.DatabaseError("auth.get_user", err)
		return LoginResult{}, apperr.Internal("login failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		s.log.AuthEvent("login", creds.Email, false, "password mismatch")
		return LoginResult{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	expiresAt := time.Now().Add(s.cfg.GetAccessTokenTTL())

	roles := []string{}
	if user.Role != nil && *user.Role != "" {
		roles = append(roles, *user.Role)
	}

	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"roles": roles,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return LoginResult{}, apperr.Internal("login failed")
	}

	s.log.AuthEvent("login", user.Email, true, "")

	return LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      user.ID.String(),
		Email:       user.Email,
	}, nil
}
