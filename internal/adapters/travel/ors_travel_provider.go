package travel

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"itinerary-planner-service/internal/ports"
)

// ORSTravelProvider implements the travel-time oracle using
// OpenRouteService.
//
// It coordinates:
//   - Mode-to-profile mapping
//   - Persistent travel-time caching keyed by rounded coordinates + mode
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSTravelProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	cache   ports.TravelCache
}

// ORS routing profiles per travel mode.
var orsProfiles = map[domain.TravelMode]string{
	domain.ModeWalking: "foot-walking",
	domain.ModeDriving: "driving-car",
}

func NewORSTravelProvider(apiKey string, cache ports.TravelCache) (*ORSTravelProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSTravelProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		cache:   cache,
	}, nil
}

// Delegate to the batched path to reuse caching and matrix logic.
func (o *ORSTravelProvider) TravelTime(
	ctx context.Context,
	origin, destination domain.Coordinates,
	mode domain.TravelMode,
) (ports.TravelResult, error) {
	results, err := o.TravelTimes(ctx, origin, []domain.Coordinates{destination}, mode)
	if err != nil {
		return ports.TravelResult{}, fmt.Errorf(
			"get travel time %s -> %s: %w",
			origin.Key(), destination.Key(), err,
		)
	}
	return results[0], nil
}

// TravelTimes resolves one origin against many destinations, consulting
// the persistent cache before issuing a single matrix-row call for the
// misses. Edges the matrix service cannot resolve come back as
// unavailable results rather than failing the batch.
func (o *ORSTravelProvider) TravelTimes(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
	mode domain.TravelMode,
) (_ []ports.TravelResult, err error) {
	defer obs.Time(ctx, "ors.TravelTimes")(&err)

	if len(destinations) == 0 {
		return []ports.TravelResult{}, nil
	}
	if _, ok := orsProfiles[mode]; !ok {
		return nil, fmt.Errorf("unsupported travel mode %q", mode)
	}

	keys := make([]string, len(destinations))
	for i, d := range destinations {
		keys[i] = ports.TravelCacheKey(origin, d, mode)
	}

	hits := make(map[string]ports.TravelResult)
	if o.cache != nil {
		hits, err = o.cache.GetMany(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("get travel cache: %w", err)
		}
	}

	missIdx := make([]int, 0, len(destinations))
	missCoords := make([]domain.Coordinates, 0, len(destinations))
	for i, k := range keys {
		if _, ok := hits[k]; !ok {
			missIdx = append(missIdx, i)
			missCoords = append(missCoords, destinations[i])
		}
	}

	fetched := make([]ports.TravelResult, 0)
	if len(missCoords) > 0 {
		fetched, err = o.fetchMatrixRow(ctx, origin, missCoords, mode)
		if err != nil {
			return nil, fmt.Errorf("fetch matrix row: %w", err)
		}

		if o.cache != nil {
			put := make(map[string]ports.TravelResult, len(fetched))
			for k, r := range fetched {
				if !r.Unavailable() {
					put[keys[missIdx[k]]] = r
				}
			}
			if len(put) > 0 {
				if cacheErr := o.cache.PutMany(ctx, put); cacheErr != nil {
					log.Printf("travel cache write failed: %v", cacheErr)
				}
			}
		}
	}

	out := make([]ports.TravelResult, len(destinations))
	for i, k := range keys {
		if r, ok := hits[k]; ok {
			out[i] = r
		}
	}
	for k, i := range missIdx {
		out[i] = fetched[k]
	}
	return out, nil
}
