package dining

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

// Categories treated as dining venues when scanning the catalog.
var diningCategories = []string{"restaurant", "food", "cafe", "bakery"}

const (
	maxOptions           = 3
	defaultDiningMinutes = 60
)

// Speeds mirror the haversine estimate used elsewhere so detour costs
// stay comparable with leg travel times.
var detourSpeedsKmh = map[domain.TravelMode]float64{
	domain.ModeWalking: 4.5,
	domain.ModeDriving: 28.0,
}

// CatalogDiningProvider recommends dining stops from the place catalog
// itself: venues carrying a dining category, ranked by how little they
// pull the traveler off the leg between two stops.
type CatalogDiningProvider struct {
	Catalog ports.PlaceCatalog
	Mode    domain.TravelMode
}

func NewCatalogDiningProvider(catalog ports.PlaceCatalog, mode domain.TravelMode) *CatalogDiningProvider {
	return &CatalogDiningProvider{Catalog: catalog, Mode: mode}
}

func (p *CatalogDiningProvider) DiningOptionsBetween(
	ctx context.Context,
	a, b domain.Coordinates,
	arrivalMinute int,
) ([]ports.DiningStop, error) {
	places, err := p.Catalog.ListPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("dining options: %w", err)
	}

	speed, ok := detourSpeedsKmh[p.Mode]
	if !ok {
		speed = detourSpeedsKmh[domain.ModeWalking]
	}
	legKm := greatCircleKm(a, b)

	type candidate struct {
		place  *domain.Place
		detour int
	}
	candidates := make([]candidate, 0, 8)
	for _, place := range places {
		if !isDiningVenue(place) {
			continue
		}
		detourKm := greatCircleKm(a, place.Coordinates) + greatCircleKm(place.Coordinates, b) - legKm
		if detourKm < 0.01 {
			// Venues on (or within meters of) the leg cost nothing extra.
			detourKm = 0
		}
		detour := int(math.Ceil(detourKm / speed * 60))
		candidates = append(candidates, candidate{place: place, detour: detour})
	}

	slices.SortStableFunc(candidates, func(x, y candidate) int {
		if x.detour != y.detour {
			return x.detour - y.detour
		}
		if x.place.ReviewCount != y.place.ReviewCount {
			return y.place.ReviewCount - x.place.ReviewCount
		}
		return strings.Compare(x.place.Name, y.place.Name)
	})

	stops := make([]ports.DiningStop, 0, maxOptions)
	for _, c := range candidates {
		if len(stops) == maxOptions {
			break
		}
		minutes := defaultDiningMinutes
		if c.place.VisitMinutes > 0 {
			minutes = c.place.VisitMinutes
		}
		stops = append(stops, ports.DiningStop{
			Name:          c.place.Name,
			DetourMinutes: c.detour,
			DiningMinutes: minutes,
		})
	}
	return stops, nil
}

func isDiningVenue(p *domain.Place) bool {
	for _, c := range p.Categories {
		lc := strings.ToLower(c)
		for _, want := range diningCategories {
			if lc == want {
				return true
			}
		}
	}
	return false
}

const earthRadiusKm = 6371.0

func greatCircleKm(a, b domain.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
