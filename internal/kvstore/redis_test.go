package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates an in-memory Redis server for testing
func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
		DB:   0,
	})

	cleanup := func() {
		redisClient.Close()
		mr.Close()
	}

	return redisClient, cleanup
}

func TestRedisStore_GetSetRemove(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisStore(redisClient)
	ctx := context.Background()

	// Absent key reads as ErrNotFound
	_, err := store.Get(ctx, "hornhub:test")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for absent key, got %v", err)
	}

	if err := store.Set(ctx, "hornhub:test", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Unexpected error on set: %v", err)
	}

	value, err := store.Get(ctx, "hornhub:test")
	if err != nil {
		t.Fatalf("Unexpected error on get: %v", err)
	}
	if string(value) != `{"a":1}` {
		t.Fatalf("Expected stored value back, got %q", value)
	}

	if err := store.Remove(ctx, "hornhub:test"); err != nil {
		t.Fatalf("Unexpected error on remove: %v", err)
	}

	// Remove is idempotent
	if err := store.Remove(ctx, "hornhub:test"); err != nil {
		t.Fatalf("Expected removing absent key to succeed, got %v", err)
	}

	_, err = store.Get(ctx, "hornhub:test")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after remove, got %v", err)
	}
}

func TestRedisStore_Update(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisStore(redisClient)
	ctx := context.Background()

	// First update sees nil for the absent key
	err := store.Update(ctx, "hornhub:counter", func(current []byte) ([]byte, error) {
		if current != nil {
			t.Fatalf("Expected nil current value for absent key, got %q", current)
		}
		return []byte("1"), nil
	})
	if err != nil {
		t.Fatalf("Unexpected error on update: %v", err)
	}

	// Second update sees the previous value
	err = store.Update(ctx, "hornhub:counter", func(current []byte) ([]byte, error) {
		if string(current) != "1" {
			t.Fatalf("Expected current value 1, got %q", current)
		}
		return []byte("2"), nil
	})
	if err != nil {
		t.Fatalf("Unexpected error on update: %v", err)
	}

	value, err := store.Get(ctx, "hornhub:counter")
	if err != nil {
		t.Fatalf("Unexpected error on get: %v", err)
	}
	if string(value) != "2" {
		t.Fatalf("Expected value 2, got %q", value)
	}
}

func TestRedisStore_UpdateAbortsOnFnError(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewRedisStore(redisClient)
	ctx := context.Background()

	if err := store.Set(ctx, "hornhub:val", []byte("keep")); err != nil {
		t.Fatalf("Unexpected error on set: %v", err)
	}

	wantErr := errors.New("bad payload")
	err := store.Update(ctx, "hornhub:val", func(current []byte) ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected fn error to surface, got %v", err)
	}

	value, _ := store.Get(ctx, "hornhub:val")
	if string(value) != "keep" {
		t.Fatalf("Expected value untouched after aborted update, got %q", value)
	}
}
