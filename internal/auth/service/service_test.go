package service

import (
	"context"
	"io"
	"testing"
	"time"

	"participant_portal_backend/internal/auth/repository"
	"participant_portal_backend/platform/apperr"
	"participant_portal_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fakeUserReader struct {
	user repository.User
	err  error
}

func (f *fakeUserReader) GetUserByEmail(_ context.Context, _ string) (repository.User, error) {
	return f.user, f.err
}

type testAuthConfig struct{}

func (testAuthConfig) GetJWTAccessSecret() string       { return testSecret }
func (testAuthConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }

func newLoginService(reader UserReader) *Service {
	return New(reader, testAuthConfig{}, logger.NewWriter(io.Discard))
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func TestLogin_IssuesTokenWithExpectedClaims(t *testing.T) {
	userID := uuid.New()
	role := "admin"
	reader := &fakeUserReader{user: repository.User{
		ID:           userID,
		Email:        "agent@example.com",
		PasswordHash: hashPassword(t, "correct horse"),
		Role:         &role,
	}}
	svc := newLoginService(reader)

	result, err := svc.Login(context.Background(), Credentials{Email: "agent@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.Parse(result.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("expected valid token, got %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != userID.String() {
		t.Fatalf("expected sub %s, got %v", userID, claims["sub"])
	}
	if claims["email"] != "agent@example.com" {
		t.Fatalf("unexpected email claim %v", claims["email"])
	}
	roles, ok := claims["roles"].([]interface{})
	if !ok || len(roles) != 1 || roles[0] != "admin" {
		t.Fatalf("unexpected roles claim %v", claims["roles"])
	}
	if result.UserID != userID.String() || result.Email != "agent@example.com" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	reader := &fakeUserReader{user: repository.User{
		ID:           uuid.New(),
		Email:        "agent@example.com",
		PasswordHash: hashPassword(t, "correct horse"),
	}}
	svc := newLoginService(reader)

	_, err := svc.Login(context.Background(), Credentials{Email: "agent@example.com", Password: "wrong"})

	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmailIsUnauthorized(t *testing.T) {
	svc := newLoginService(&fakeUserReader{err: repository.ErrNotFound})

	_, err := svc.Login(context.Background(), Credentials{Email: "ghost@example.com", Password: "whatever"})

	// Unknown email and wrong password are indistinguishable to the caller.
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
