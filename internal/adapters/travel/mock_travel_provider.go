package travel

import (
	"context"
	"fmt"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

type MockEdge struct {
	From, To domain.Coordinates
	Mode     domain.TravelMode
	Minutes  int
	Meters   int
}

// MockTravelProvider serves fixed edges for tests.
type MockTravelProvider struct {
	m map[string]ports.TravelResult
}

func NewMockTravelProvider(edges []MockEdge) *MockTravelProvider {
	m := make(map[string]ports.TravelResult, len(edges))
	for _, e := range edges {
		m[ports.TravelCacheKey(e.From, e.To, e.Mode)] = ports.TravelResult{
			DurationMinutes: e.Minutes,
			DistanceMeters:  e.Meters,
			Mode:            e.Mode,
		}
	}
	return &MockTravelProvider{m: m}
}

func (p *MockTravelProvider) TravelTime(
	_ context.Context,
	origin, destination domain.Coordinates,
	mode domain.TravelMode,
) (ports.TravelResult, error) {
	r, ok := p.m[ports.TravelCacheKey(origin, destination, mode)]
	if !ok {
		return ports.TravelResult{}, fmt.Errorf("missing edge %s -> %s", origin.Key(), destination.Key())
	}
	return r, nil
}
