package travel

import (
	"context"
	"testing"

	"itinerary-planner-service/internal/domain"
)

func TestMockTravelProviderServesConfiguredEdges(t *testing.T) {
	a := domain.Coordinates{Lat: 35.000, Lon: 135.000}
	b := domain.Coordinates{Lat: 35.010, Lon: 135.000}

	p := NewMockTravelProvider([]MockEdge{
		{From: a, To: b, Mode: domain.ModeWalking, Minutes: 14, Meters: 1100},
	})

	got, err := p.TravelTime(context.Background(), a, b, domain.ModeWalking)
	if err != nil {
		t.Fatalf("TravelTime: %v", err)
	}
	if got.DurationMinutes != 14 || got.DistanceMeters != 1100 {
		t.Errorf("got %+v", got)
	}

	// Edges are directed and mode-specific.
	if _, err := p.TravelTime(context.Background(), b, a, domain.ModeWalking); err == nil {
		t.Error("expected an error for the reverse edge")
	}
	if _, err := p.TravelTime(context.Background(), a, b, domain.ModeDriving); err == nil {
		t.Error("expected an error for an unconfigured mode")
	}
}
