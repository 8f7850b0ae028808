package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type testJWTConfig struct{ secret string }

func (c testJWTConfig) GetJWTAccessSecret() string { return c.secret }

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func protectedRouter(cfg testJWTConfig, capture *Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthRequired(cfg), func(c *gin.Context) {
		*capture = GetIdentity(c)
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthRequired_ValidTokenPopulatesIdentity(t *testing.T) {
	cfg := testJWTConfig{secret: "secret"}
	userID := uuid.New()
	token := signToken(t, cfg.secret, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "agent@example.com",
		"roles": []string{"admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	var identity Identity
	router := protectedRouter(cfg, &identity)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !identity.IsAuthenticated() {
		t.Fatal("expected authenticated identity")
	}
	if identity.UserID() != userID {
		t.Fatalf("expected user %s, got %s", userID, identity.UserID())
	}
	if identity.Email() != "agent@example.com" {
		t.Fatalf("unexpected email %q", identity.Email())
	}
	if !identity.HasRole("admin") {
		t.Fatal("expected admin role")
	}
}

func TestAuthRequired_MissingTokenIsRejected(t *testing.T) {
	var identity Identity
	router := protectedRouter(testJWTConfig{secret: "secret"}, &identity)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequired_WrongSecretIsRejected(t *testing.T) {
	var identity Identity
	router := protectedRouter(testJWTConfig{secret: "secret"}, &identity)

	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequired_ExpiredTokenIsRejected(t *testing.T) {
	cfg := testJWTConfig{secret: "secret"}
	var identity Identity
	router := protectedRouter(cfg, &identity)

	token := signToken(t, cfg.secret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"well formed", "Bearer abc123", "abc123", true},
		{"lowercase scheme", "bearer abc123", "abc123", true},
		{"empty header", "", "", false},
		{"missing token", "Bearer ", "", false},
		{"wrong scheme", "Basic abc123", "", false},
		{"no scheme", "abc123", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractBearerToken(tc.header)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("extractBearerToken(%q) = %q, %v; want %q, %v", tc.header, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestExtractRoles(t *testing.T) {
	if roles := extractRoles(nil); len(roles) != 0 {
		t.Fatalf("expected no roles for nil claim, got %v", roles)
	}
	// JSON decoding yields []interface{}, direct construction yields []string.
	if roles := extractRoles([]interface{}{"admin", 7, "member"}); len(roles) != 2 {
		t.Fatalf("expected non-strings skipped, got %v", roles)
	}
	if roles := extractRoles([]string{"admin"}); len(roles) != 1 || roles[0] != "admin" {
		t.Fatalf("unexpected roles %v", roles)
	}
}
