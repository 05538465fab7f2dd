package dining

import (
	"context"
	"testing"

	"itinerary-planner-service/internal/domain"
)

type stubCatalog struct{ places []*domain.Place }

func (s *stubCatalog) ListPlaces(ctx context.Context) ([]*domain.Place, error) {
	return s.places, nil
}

func venue(id string, lat, lon float64, categories ...string) *domain.Place {
	return &domain.Place{
		ID:           id,
		Name:         id,
		Coordinates:  domain.Coordinates{Lat: lat, Lon: lon},
		Categories:   categories,
		ReviewCount:  500,
		VisitMinutes: 45,
	}
}

func TestDiningOptionsRanksByDetour(t *testing.T) {
	a := domain.Coordinates{Lat: 35.000, Lon: 135.000}
	b := domain.Coordinates{Lat: 35.010, Lon: 135.000}

	onTheWay := venue("on-the-way", 35.005, 135.000, "restaurant")
	offRoute := venue("off-route", 35.005, 135.020, "restaurant")
	museum := venue("museum", 35.005, 135.001, "museum")

	p := NewCatalogDiningProvider(&stubCatalog{places: []*domain.Place{offRoute, museum, onTheWay}}, domain.ModeWalking)

	stops, err := p.DiningOptionsBetween(context.Background(), a, b, 12*60)
	if err != nil {
		t.Fatalf("DiningOptionsBetween: %v", err)
	}
	if len(stops) != 2 {
		t.Fatalf("got %d stops, want 2 (the museum is not a dining venue)", len(stops))
	}
	if stops[0].Name != "on-the-way" {
		t.Errorf("first stop = %q, want the venue on the leg", stops[0].Name)
	}
	if stops[0].DetourMinutes != 0 {
		t.Errorf("on-leg detour = %d, want 0", stops[0].DetourMinutes)
	}
	if stops[1].DetourMinutes <= 0 {
		t.Errorf("off-route detour = %d, want positive", stops[1].DetourMinutes)
	}
	if stops[0].DiningMinutes != 45 {
		t.Errorf("dining minutes = %d, want the venue's visit time", stops[0].DiningMinutes)
	}
}

func TestDiningOptionsCapped(t *testing.T) {
	a := domain.Coordinates{Lat: 35.000, Lon: 135.000}
	b := domain.Coordinates{Lat: 35.010, Lon: 135.000}

	places := []*domain.Place{
		venue("r1", 35.002, 135.000, "restaurant"),
		venue("r2", 35.004, 135.000, "cafe"),
		venue("r3", 35.006, 135.000, "food"),
		venue("r4", 35.008, 135.000, "bakery"),
	}
	p := NewCatalogDiningProvider(&stubCatalog{places: places}, domain.ModeWalking)

	stops, err := p.DiningOptionsBetween(context.Background(), a, b, 12*60)
	if err != nil {
		t.Fatalf("DiningOptionsBetween: %v", err)
	}
	if len(stops) != 3 {
		t.Errorf("got %d stops, want the cap of 3", len(stops))
	}
}
