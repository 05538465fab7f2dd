package ports

import (
	"context"
	"itinerary-planner-service/internal/domain"
)

// TravelCacheKey builds the canonical cache key for one directed edge.
// Coordinates are rounded (see Coordinates.Key) so nearby lookups share
// entries.
func TravelCacheKey(origin, destination domain.Coordinates, mode domain.TravelMode) string {
	return string(mode) + "|" + origin.Key() + "|" + destination.Key()
}

// Cache of resolved travel-time edges, keyed by TravelCacheKey.
// Lifetime is controlled by the caller; implementations must be safe
// for concurrent use.
type TravelCache interface {
	GetMany(ctx context.Context, keys []string) (map[string]TravelResult, error)
	PutMany(ctx context.Context, results map[string]TravelResult) error
}

// Cache of geocoded addresses.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
