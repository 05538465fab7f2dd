package services

import (
	"context"
	"log"
	"math"

	"golang.org/x/sync/errgroup"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

// Mode speeds used when an edge has to be estimated instead of fetched
// from the oracle (km/h, urban averages).
var modeSpeedKmh = map[domain.TravelMode]float64{
	domain.ModeWalking: 4.5,
	domain.ModeDriving: 28.0,
}

// estimateTravelMinutes approximates a leg from great-circle distance at
// the mode's average speed. Used for selector time estimates and as the
// fallback when an oracle batch fails.
func estimateTravelMinutes(a, b domain.Coordinates, mode domain.TravelMode) int {
	speed, ok := modeSpeedKmh[mode]
	if !ok {
		speed = modeSpeedKmh[domain.ModeWalking]
	}
	km := haversineKm(a, b)
	if km == 0 {
		return 0
	}
	return int(math.Ceil(km / speed * 60))
}

// TravelMatrix is a frozen origin×destination lookup of travel minutes
// and distances for a fixed point list and mode. Sequencing logic never
// observes a partially filled matrix: FetchTravelMatrix awaits every row
// before returning. Unresolved edges carry +Inf minutes.
type TravelMatrix struct {
	points  []domain.Coordinates
	mode    domain.TravelMode
	minutes []float64
	meters  []int
}

// Minutes returns the travel duration for edge i→j, +Inf if unavailable.
func (m *TravelMatrix) Minutes(i, j int) float64 {
	if i == j {
		return 0
	}
	return m.minutes[i*len(m.points)+j]
}

// Meters returns the travel distance for edge i→j.
func (m *TravelMatrix) Meters(i, j int) int {
	if i == j {
		return 0
	}
	return m.meters[i*len(m.points)+j]
}

// Available reports whether edge i→j was resolved.
func (m *TravelMatrix) Available(i, j int) bool { return !math.IsInf(m.Minutes(i, j), 1) }

// Mode returns the matrix's travel mode.
func (m *TravelMatrix) Mode() domain.TravelMode { return m.mode }

// TravelMinutes returns edge minutes rounded for scheduling, falling
// back to a haversine estimate when the oracle edge is unavailable.
func (m *TravelMatrix) TravelMinutes(i, j int) int {
	min := m.Minutes(i, j)
	if math.IsInf(min, 1) {
		return estimateTravelMinutes(m.points[i], m.points[j], m.mode)
	}
	return int(math.Round(min))
}

// FetchTravelMatrix populates the full pairwise matrix from the oracle,
// fanning out one batched row per origin and awaiting the whole set.
//
// Failure handling follows the taxonomy: an unresolved edge inside a
// successful batch becomes +Inf (excluded from greedy consideration); a
// failed batch degrades that row to haversine estimates rather than
// corrupting the matrix. Only context cancellation aborts the fetch.
func FetchTravelMatrix(
	ctx context.Context,
	provider ports.TravelTimeProvider,
	points []domain.Coordinates,
	mode domain.TravelMode,
) (*TravelMatrix, error) {
	n := len(points)
	m := &TravelMatrix{
		points:  points,
		mode:    mode,
		minutes: make([]float64, n*n),
		meters:  make([]int, n*n),
	}

	batcher, _ := provider.(ports.TravelTimeMatrixProvider)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(5)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			dests := make([]domain.Coordinates, 0, n-1)
			idx := make([]int, 0, n-1)
			for j := 0; j < n; j++ {
				if j != i {
					dests = append(dests, points[j])
					idx = append(idx, j)
				}
			}

			results, err := fetchRow(ctx, provider, batcher, points[i], dests, mode)
			if err != nil {
				// Whole-batch failure: degrade this row to estimates.
				log.Printf("travel matrix: row origin=%d failed, using estimates: %v", i, err)
				for k, j := range idx {
					m.minutes[i*n+j] = float64(estimateTravelMinutes(points[i], dests[k], mode))
					m.meters[i*n+j] = int(haversineKm(points[i], dests[k]) * 1000)
				}
				return nil
			}

			for k, j := range idx {
				r := results[k]
				if r.Unavailable() {
					m.minutes[i*n+j] = math.Inf(1)
					continue
				}
				m.minutes[i*n+j] = float64(r.DurationMinutes)
				m.meters[i*n+j] = r.DistanceMeters
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func fetchRow(
	ctx context.Context,
	provider ports.TravelTimeProvider,
	batcher ports.TravelTimeMatrixProvider,
	origin domain.Coordinates,
	dests []domain.Coordinates,
	mode domain.TravelMode,
) ([]ports.TravelResult, error) {
	if batcher != nil {
		return batcher.TravelTimes(ctx, origin, dests, mode)
	}

	out := make([]ports.TravelResult, len(dests))
	for k, d := range dests {
		r, err := provider.TravelTime(ctx, origin, d, mode)
		if err != nil {
			// Single-provider path: record the edge as unavailable and
			// keep going; a hard failure of every edge is still a usable
			// (if empty) row.
			out[k] = ports.TravelResult{DurationMinutes: -1, Mode: mode}
			continue
		}
		out[k] = r
	}
	return out, nil
}
