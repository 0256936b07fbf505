package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, s
}

func TestSaveAndLookupRefreshSession(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	if err := store.SaveRefreshSession(ctx, "hash-1", "usr_123", time.Now().Add(24*time.Hour)); err != nil {
		t.Fatalf("SaveRefreshSession failed: %v", err)
	}

	userID, err := store.LookupRefreshSession(ctx, "hash-1")
	if err != nil {
		t.Fatalf("LookupRefreshSession failed: %v", err)
	}
	if userID != "usr_123" {
		t.Errorf("expected usr_123, got %s", userID)
	}
}

func TestLookupUnknownToken(t *testing.T) {
	store, _ := setupTestRedis(t)

	if _, err := store.LookupRefreshSession(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRevokeRefreshSession(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	if err := store.SaveRefreshSession(ctx, "hash-1", "usr_123", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SaveRefreshSession failed: %v", err)
	}
	if err := store.RevokeRefreshSession(ctx, "hash-1"); err != nil {
		t.Fatalf("RevokeRefreshSession failed: %v", err)
	}
	if _, err := store.LookupRefreshSession(ctx, "hash-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after revoke, got %v", err)
	}
	// revoking again is a no-op
	if err := store.RevokeRefreshSession(ctx, "hash-1"); err != nil {
		t.Fatalf("second revoke should be a no-op, got %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	store, mini := setupTestRedis(t)
	ctx := context.Background()

	if err := store.SaveRefreshSession(ctx, "hash-1", "usr_123", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("SaveRefreshSession failed: %v", err)
	}
	mini.FastForward(2 * time.Minute)
	if _, err := store.LookupRefreshSession(ctx, "hash-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRejectsExpiredSave(t *testing.T) {
	store, _ := setupTestRedis(t)

	if err := store.SaveRefreshSession(context.Background(), "hash-1", "usr_123", time.Now().Add(-time.Minute)); err == nil {
		t.Fatal("expected save with past expiry to fail")
	}
}
