package travel

import (
	"context"
	"math"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

// Average urban speeds per mode, km/h.
var haversineSpeeds = map[domain.TravelMode]float64{
	domain.ModeWalking: 4.5,
	domain.ModeDriving: 28.0,
}

// HaversineTravelProvider estimates travel times from great-circle
// distance at mode-average speeds. Used for offline planning and as the
// stand-in oracle in the CLI; it never fails.
type HaversineTravelProvider struct{}

func NewHaversineTravelProvider() *HaversineTravelProvider {
	return &HaversineTravelProvider{}
}

func (p *HaversineTravelProvider) TravelTime(
	_ context.Context,
	origin, destination domain.Coordinates,
	mode domain.TravelMode,
) (ports.TravelResult, error) {
	return estimate(origin, destination, mode), nil
}

func (p *HaversineTravelProvider) TravelTimes(
	_ context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
	mode domain.TravelMode,
) ([]ports.TravelResult, error) {
	out := make([]ports.TravelResult, len(destinations))
	for i, d := range destinations {
		out[i] = estimate(origin, d, mode)
	}
	return out, nil
}

func estimate(a, b domain.Coordinates, mode domain.TravelMode) ports.TravelResult {
	speed, ok := haversineSpeeds[mode]
	if !ok {
		speed = haversineSpeeds[domain.ModeWalking]
	}
	km := greatCircleKm(a, b)
	return ports.TravelResult{
		DurationMinutes: int(math.Ceil(km / speed * 60)),
		DistanceMeters:  int(math.Round(km * 1000)),
		Mode:            mode,
	}
}

func greatCircleKm(a, b domain.Coordinates) float64 {
	const earthRadiusKm = 6371.0
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
