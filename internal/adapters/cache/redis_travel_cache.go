package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

// RedisTravelCache stores resolved travel edges in Redis with a TTL,
// for deployments where plan requests share an ephemeral cache instead
// of (or in front of) the SQL one. Values are packed as
// "minutes|meters|mode".
type RedisTravelCache struct {
	Client *redis.Client
	TTL    time.Duration
}

const redisKeyPrefix = "travel:"

func NewRedisTravelCache(client *redis.Client, ttl time.Duration) *RedisTravelCache {
	return &RedisTravelCache{Client: client, TTL: ttl}
}

func (r *RedisTravelCache) GetMany(ctx context.Context, keys []string) (map[string]ports.TravelResult, error) {
	if r.Client == nil {
		return nil, errors.New("redis travel cache: client is nil")
	}
	if len(keys) == 0 {
		return map[string]ports.TravelResult{}, nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = redisKeyPrefix + k
	}

	vals, err := r.Client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis travel cache: mget: %w", err)
	}

	out := make(map[string]ports.TravelResult, len(keys))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		result, err := unpackResult(s)
		if err != nil {
			// Ignore malformed entries; they age out via TTL.
			continue
		}
		out[keys[i]] = result
	}
	return out, nil
}

func (r *RedisTravelCache) PutMany(ctx context.Context, results map[string]ports.TravelResult) error {
	if r.Client == nil {
		return errors.New("redis travel cache: client is nil")
	}
	if len(results) == 0 {
		return nil
	}

	pipe := r.Client.Pipeline()
	for k, res := range results {
		pipe.Set(ctx, redisKeyPrefix+k, packResult(res), r.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis travel cache: pipeline exec: %w", err)
	}
	return nil
}

func packResult(r ports.TravelResult) string {
	return fmt.Sprintf("%d|%d|%s", r.DurationMinutes, r.DistanceMeters, r.Mode)
}

func unpackResult(s string) (ports.TravelResult, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return ports.TravelResult{}, fmt.Errorf("malformed cache value %q", s)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return ports.TravelResult{}, fmt.Errorf("malformed duration in %q", s)
	}
	meters, err := strconv.Atoi(parts[1])
	if err != nil {
		return ports.TravelResult{}, fmt.Errorf("malformed distance in %q", s)
	}
	return ports.TravelResult{
		DurationMinutes: minutes,
		DistanceMeters:  meters,
		Mode:            domain.TravelMode(parts[2]),
	}, nil
}
