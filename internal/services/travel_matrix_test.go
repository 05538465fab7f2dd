package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

type fixedMatrixProvider struct{ minutes, meters int }

func (p *fixedMatrixProvider) TravelTime(ctx context.Context, origin, dest domain.Coordinates, mode domain.TravelMode) (ports.TravelResult, error) {
	return ports.TravelResult{DurationMinutes: p.minutes, DistanceMeters: p.meters, Mode: mode}, nil
}

func (p *fixedMatrixProvider) TravelTimes(ctx context.Context, origin domain.Coordinates, dests []domain.Coordinates, mode domain.TravelMode) ([]ports.TravelResult, error) {
	out := make([]ports.TravelResult, len(dests))
	for i := range out {
		out[i] = ports.TravelResult{DurationMinutes: p.minutes, DistanceMeters: p.meters, Mode: mode}
	}
	return out, nil
}

type failingBatchProvider struct{}

func (p *failingBatchProvider) TravelTime(ctx context.Context, origin, dest domain.Coordinates, mode domain.TravelMode) (ports.TravelResult, error) {
	return ports.TravelResult{}, errors.New("oracle down")
}

func (p *failingBatchProvider) TravelTimes(ctx context.Context, origin domain.Coordinates, dests []domain.Coordinates, mode domain.TravelMode) ([]ports.TravelResult, error) {
	return nil, errors.New("oracle down")
}

type partialProvider struct{}

func (p *partialProvider) TravelTime(ctx context.Context, origin, dest domain.Coordinates, mode domain.TravelMode) (ports.TravelResult, error) {
	return ports.TravelResult{}, errors.New("unreachable edge")
}

func testPoints() []domain.Coordinates {
	return []domain.Coordinates{
		{Lat: 35.000, Lon: 135.000},
		{Lat: 35.010, Lon: 135.000},
		{Lat: 35.020, Lon: 135.000},
	}
}

func TestFetchTravelMatrixFromBatcher(t *testing.T) {
	points := testPoints()
	m, err := FetchTravelMatrix(context.Background(), &fixedMatrixProvider{minutes: 12, meters: 900}, points, domain.ModeWalking)
	require.NoError(t, err)

	for i := range points {
		for j := range points {
			if i == j {
				assert.Equal(t, 0, m.TravelMinutes(i, j))
				continue
			}
			assert.True(t, m.Available(i, j))
			assert.Equal(t, 12, m.TravelMinutes(i, j))
			assert.Equal(t, 900, m.Meters(i, j))
		}
	}
	assert.Equal(t, domain.ModeWalking, m.Mode())
}

// A failed batch degrades its row to haversine estimates instead of
// failing the whole fetch.
func TestFetchTravelMatrixDegradesFailedRows(t *testing.T) {
	points := testPoints()
	m, err := FetchTravelMatrix(context.Background(), &failingBatchProvider{}, points, domain.ModeWalking)
	require.NoError(t, err)

	want := estimateTravelMinutes(points[0], points[1], domain.ModeWalking)
	assert.Equal(t, want, m.TravelMinutes(0, 1))
	assert.True(t, m.Available(0, 1), "estimated edges are still usable")
}

// Per-edge failures from a non-batching provider become unavailable
// edges; scheduling falls back to estimates for those.
func TestFetchTravelMatrixMarksUnavailableEdges(t *testing.T) {
	points := testPoints()
	m, err := FetchTravelMatrix(context.Background(), &partialProvider{}, points, domain.ModeWalking)
	require.NoError(t, err)

	assert.False(t, m.Available(0, 1))
	want := estimateTravelMinutes(points[0], points[1], domain.ModeWalking)
	assert.Equal(t, want, m.TravelMinutes(0, 1))
}

func TestEstimateTravelMinutes(t *testing.T) {
	a := domain.Coordinates{Lat: 35.000, Lon: 135.000}
	b := domain.Coordinates{Lat: 35.010, Lon: 135.000} // ~1.11 km

	walk := estimateTravelMinutes(a, b, domain.ModeWalking)
	drive := estimateTravelMinutes(a, b, domain.ModeDriving)

	assert.Equal(t, 15, walk)
	assert.Less(t, drive, walk)
	assert.Zero(t, estimateTravelMinutes(a, a, domain.ModeWalking))
}
