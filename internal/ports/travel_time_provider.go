package ports

import (
	"context"
	"itinerary-planner-service/internal/domain"
)

// Travel distance and duration between two points for one mode.
// DurationMinutes < 0 marks an edge the oracle could not resolve;
// callers treat such edges as unavailable rather than failing the batch.
type TravelResult struct {
	DurationMinutes int
	DistanceMeters  int
	Mode            domain.TravelMode
}

// Unavailable reports whether the edge could not be resolved.
func (r TravelResult) Unavailable() bool { return r.DurationMinutes < 0 }

// Contract for retrieving travel time between two coordinates.
type TravelTimeProvider interface {
	// Return travel duration and distance between two points.
	TravelTime(ctx context.Context, origin, destination domain.Coordinates, mode domain.TravelMode) (TravelResult, error)
}

// Optional extension of TravelTimeProvider that supports batched lookups.
type TravelTimeMatrixProvider interface {
	TravelTimeProvider
	// Return travel results from one origin to many destinations, aligned
	// with the destinations slice. Individual unresolved edges are returned
	// as unavailable results; a non-nil error means the whole batch failed.
	TravelTimes(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates, mode domain.TravelMode) ([]TravelResult, error)
}
