package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carboniq/server/internal/adapter/cache"
	"github.com/carboniq/server/internal/domain"
)

// TestRedis_CacheAdapter exercises the application cache abstraction against
// a real Redis.
func TestRedis_CacheAdapter(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}
	FlushRedis(t, env.Redis)

	ctx := context.Background()
	appCache, err := cache.NewRedisCache(fmt.Sprintf("redis://%s", env.Redis.Options().Addr), env.Logger)
	if err != nil {
		t.Fatalf("Failed to build cache adapter: %v", err)
	}
	defer appCache.Close()

	t.Run("SetGetString", func(t *testing.T) {
		if err := appCache.Set(ctx, "test:key", "test-value", time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}
		val, err := appCache.Get(ctx, "test:key")
		if err != nil {
			t.Fatalf("Failed to get key: %v", err)
		}
		if val != "test-value" {
			t.Errorf("Expected 'test-value', got %q", val)
		}
	})

	t.Run("SetGetStruct", func(t *testing.T) {
		summary := &domain.EmissionSummary{
			TotalTonnes:     12.5,
			ThisMonthTonnes: 3.1,
		}
		if err := appCache.Set(ctx, "summary:org-1", summary, time.Minute); err != nil {
			t.Fatalf("Failed to cache summary: %v", err)
		}

		raw, err := appCache.Get(ctx, "summary:org-1")
		if err != nil {
			t.Fatalf("Failed to read cached summary: %v", err)
		}
		var decoded domain.EmissionSummary
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			t.Fatalf("Cached summary is not JSON: %v", err)
		}
		if decoded.TotalTonnes != 12.5 {
			t.Errorf("Expected 12.5 total, got %f", decoded.TotalTonnes)
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		if err := appCache.Set(ctx, "test:expiring", "value", 100*time.Millisecond); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}
		if _, err := appCache.Get(ctx, "test:expiring"); err != nil {
			t.Fatalf("Key should exist: %v", err)
		}

		time.Sleep(150 * time.Millisecond)

		if _, err := appCache.Get(ctx, "test:expiring"); err == nil {
			t.Error("Key should have expired")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := appCache.Set(ctx, "test:delete", "value", time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}
		if err := appCache.Delete(ctx, "test:delete"); err != nil {
			t.Fatalf("Failed to delete key: %v", err)
		}
		if _, err := appCache.Get(ctx, "test:delete"); err == nil {
			t.Error("Key should be gone after delete")
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := appCache.Ping(); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})
}

// TestRedis_RawExpiry verifies the underlying client honors TTLs the geo
// cache relies on.
func TestRedis_RawExpiry(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}
	FlushRedis(t, env.Redis)

	ctx := context.Background()
	if err := env.Redis.Set(ctx, "geo:regions", `[]`, 50*time.Millisecond).Err(); err != nil {
		t.Fatalf("Failed to set key: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := env.Redis.Get(ctx, "geo:regions").Result(); err != redis.Nil {
		t.Errorf("Expected redis.Nil after expiry, got %v", err)
	}
}
