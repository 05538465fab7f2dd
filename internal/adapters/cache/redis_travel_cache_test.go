package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

func newTestRedisCache(t *testing.T) (*RedisTravelCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTravelCache(client, time.Hour), mr
}

func TestRedisTravelCacheRoundTrip(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()

	key := ports.TravelCacheKey(
		domain.Coordinates{Lat: 35.68120, Lon: 139.76710},
		domain.Coordinates{Lat: 35.71480, Lon: 139.79670},
		domain.ModeWalking,
	)
	want := ports.TravelResult{DurationMinutes: 42, DistanceMeters: 3100, Mode: domain.ModeWalking}

	if err := c.PutMany(ctx, map[string]ports.TravelResult{key: want}); err != nil {
		t.Fatalf("PutMany: %v", err)
	}

	got, err := c.GetMany(ctx, []string{key, "missing"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if got[key] != want {
		t.Errorf("got %+v, want %+v", got[key], want)
	}
}

func TestRedisTravelCacheIgnoresMalformedValues(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	mr.Set(redisKeyPrefix+"bad", "not-a-cached-edge")

	got, err := c.GetMany(ctx, []string{"bad"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("malformed entry should be skipped, got %+v", got)
	}
}

func TestRedisTravelCacheEmptyBatches(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.PutMany(ctx, nil); err != nil {
		t.Fatalf("PutMany(nil): %v", err)
	}
	got, err := c.GetMany(ctx, nil)
	if err != nil {
		t.Fatalf("GetMany(nil): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestRedisTravelCacheAppliesTTL(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	key := "walking|35.00000,135.00000|35.01000,135.00000"
	err := c.PutMany(ctx, map[string]ports.TravelResult{
		key: {DurationMinutes: 15, DistanceMeters: 1100, Mode: domain.ModeWalking},
	})
	if err != nil {
		t.Fatalf("PutMany: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	got, err := c.GetMany(ctx, []string{key})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("entry should have expired, got %+v", got)
	}
}
