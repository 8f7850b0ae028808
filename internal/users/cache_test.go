package users

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newCacheUnderTest(t *testing.T) (*ProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewProfileCache(client, time.Minute), mr
}

func TestProfileCache_RoundTrip(t *testing.T) {
	cache, _ := newCacheUnderTest(t)
	ctx := context.Background()

	name := "Taro"
	user := User{
		ID:           uuid.New(),
		Name:         &name,
		Email:        "taro@example.com",
		Organization: &Organization{ID: uuid.New(), Name: "Acme"},
	}

	cache.Set(ctx, "taro@example.com", user)

	got := cache.Get(ctx, "taro@example.com")
	if got == nil {
		t.Fatal("expected cache hit")
	}
	if got.ID != user.ID || got.Email != user.Email {
		t.Fatalf("unexpected cached user %+v", got)
	}
	if got.Organization == nil || got.Organization.Name != "Acme" {
		t.Fatalf("expected organization preserved, got %+v", got.Organization)
	}
}

func TestProfileCache_KeyIsCaseInsensitive(t *testing.T) {
	cache, _ := newCacheUnderTest(t)
	ctx := context.Background()

	cache.Set(ctx, "Taro@Example.com", User{ID: uuid.New(), Email: "taro@example.com"})

	if cache.Get(ctx, "  taro@example.com ") == nil {
		t.Fatal("expected hit regardless of case and surrounding whitespace")
	}
}

func TestProfileCache_MissReturnsNil(t *testing.T) {
	cache, _ := newCacheUnderTest(t)

	if got := cache.Get(context.Background(), "nobody@example.com"); got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}
}

func TestProfileCache_ExpiresAfterTTL(t *testing.T) {
	cache, mr := newCacheUnderTest(t)
	ctx := context.Background()

	cache.Set(ctx, "taro@example.com", User{ID: uuid.New(), Email: "taro@example.com"})
	mr.FastForward(2 * time.Minute)

	if got := cache.Get(ctx, "taro@example.com"); got != nil {
		t.Fatalf("expected entry to expire, got %+v", got)
	}
}

func TestProfileCache_NilClientIsSafe(t *testing.T) {
	cache := NewProfileCache(nil, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "taro@example.com", User{Email: "taro@example.com"})
	if got := cache.Get(ctx, "taro@example.com"); got != nil {
		t.Fatalf("nil client must behave as a permanent miss, got %+v", got)
	}
}

func TestProfileCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newCacheUnderTest(t)

	if err := mr.Set("user_profile:taro@example.com", "{not json"); err != nil {
		t.Fatalf("failed to seed corrupt entry: %v", err)
	}

	if got := cache.Get(context.Background(), "taro@example.com"); got != nil {
		t.Fatalf("corrupt entry must read as a miss, got %+v", got)
	}
}
