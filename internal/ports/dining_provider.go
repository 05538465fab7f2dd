package ports

import (
	"context"
	"itinerary-planner-service/internal/domain"
)

// DiningStop describes a restaurant detour between two route points.
type DiningStop struct {
	Name          string
	DetourMinutes int // travel to and from the restaurant
	DiningMinutes int // time spent eating
}

// TotalImpact is the full schedule cost of taking the stop.
func (s DiningStop) TotalImpact() int { return s.DetourMinutes + s.DiningMinutes }

// Optional contract for dining recommendations along a leg. The engine
// injects returned stops into schedule entries but never computes them.
type DiningProvider interface {
	DiningOptionsBetween(ctx context.Context, a, b domain.Coordinates, arrivalMinute int) ([]DiningStop, error)
}
