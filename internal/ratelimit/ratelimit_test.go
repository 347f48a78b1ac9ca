package ratelimit

import (
	"context"
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

func TestTokenBucket_Allow(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	bucket := NewTokenBucket(redisClient, 5, 5)

	ctx := context.Background()
	userID := "user1"
	action := "upload"

	for i := 0; i < 5; i++ {
		allowed, err := bucket.Allow(ctx, userID, action)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("Expected upload %d to be allowed", i+1)
		}
	}

	allowed, err := bucket.Allow(ctx, userID, action)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("Expected upload to be denied after limit reached")
	}

	remaining, err := bucket.GetRemaining(ctx, userID, action)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("Expected 0 remaining tokens, got %d", remaining)
	}
}

func TestTokenBucket_IsolatesUsers(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	bucket := NewTokenBucket(redisClient, 2, 2)

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if allowed, _ := bucket.Allow(ctx, "user1", "upload"); !allowed {
			t.Fatalf("Expected user1 upload %d to be allowed", i+1)
		}
	}
	if allowed, _ := bucket.Allow(ctx, "user1", "upload"); allowed {
		t.Fatal("Expected user1 to be limited")
	}

	// user2's bucket is separate
	if allowed, _ := bucket.Allow(ctx, "user2", "upload"); !allowed {
		t.Fatal("Expected user2 to be unaffected by user1's limit")
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	bucket := NewTokenBucket(redisClient, 5, 5)

	ctx := context.Background()
	userID := "user1"
	action := "upload"

	for i := 0; i < 5; i++ {
		bucket.Allow(ctx, userID, action)
	}

	if err := bucket.Reset(ctx, userID, action); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	remaining, err := bucket.GetRemaining(ctx, userID, action)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 5 {
		t.Fatalf("Expected 5 remaining tokens after reset, got %d", remaining)
	}
}
