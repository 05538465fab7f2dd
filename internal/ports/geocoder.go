package ports

import (
	"context"
	"itinerary-planner-service/internal/domain"
)

// Contract for resolving a free-form address to coordinates.
// Callers supply a regional fallback center when resolution fails.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
