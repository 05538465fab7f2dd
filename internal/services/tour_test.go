package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-planner-service/internal/domain"
)

// ~1 km in degrees of latitude (and of longitude at the equator).
const kmDeg = 0.008983

func routeKm(places []*domain.Place) float64 {
	total := 0.0
	for i := 1; i < len(places); i++ {
		total += haversineKm(places[i-1].Coordinates, places[i].Coordinates)
	}
	return total
}

// Corners of a 1 km square fed in a crossing order must come out
// untangled: the open path along three sides, about 3 km.
func TestOrderClusterPlacesUncrossesSquare(t *testing.T) {
	square := []*domain.Place{
		testPlace("sw", 0, 0),
		testPlace("ne", kmDeg, kmDeg),
		testPlace("se", 0, kmDeg),
		testPlace("nw", kmDeg, 0),
	}
	before := routeKm(square)

	c := &domain.Cluster{Places: square}
	OrderClusterPlaces(c, domain.ModeWalking)

	after := routeKm(c.Places)
	assert.Less(t, after, before)
	assert.InDelta(t, 3.0, after, 0.1)
}

func TestOrderClusterPlacesRefinementIsMonotone(t *testing.T) {
	places := []*domain.Place{
		testPlace("a", 35.0000, 135.0000),
		testPlace("b", 35.0080, 135.0030),
		testPlace("c", 35.0010, 135.0095),
		testPlace("d", 35.0055, 135.0005),
		testPlace("e", 35.0030, 135.0060),
		testPlace("f", 35.0090, 135.0090),
	}
	before := routeKm(places)

	c := &domain.Cluster{Places: places}
	OrderClusterPlaces(c, domain.ModeWalking)

	assert.LessOrEqual(t, routeKm(c.Places), before+1e-9)
}

func TestOrderClusterPlacesTrioByPopularity(t *testing.T) {
	a := testPlace("a", 35.000, 135.000)
	a.ReviewCount = 100
	b := testPlace("b", 35.001, 135.000)
	b.ReviewCount = 9000
	c := testPlace("c", 35.002, 135.000)
	c.ReviewCount = 500

	cluster := &domain.Cluster{Places: []*domain.Place{a, b, c}}
	OrderClusterPlaces(cluster, domain.ModeWalking)

	ids := make([]string, 0, 3)
	for _, p := range cluster.Places {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}

func TestOrderClusterPlacesUpdatesTotalMinutes(t *testing.T) {
	places := []*domain.Place{
		testPlace("a", 35.000, 135.000),
		testPlace("b", 35.010, 135.000),
	}
	c := &domain.Cluster{Places: places}
	OrderClusterPlaces(c, domain.ModeWalking)

	// Two 60 minute visits plus one ~1.1 km walking transition.
	transition := estimateTravelMinutes(places[0].Coordinates, places[1].Coordinates, domain.ModeWalking)
	require.Positive(t, transition)
	assert.Equal(t, 120+transition, c.TotalMinutes)
}

func TestTwoOptImprovesCrossedPath(t *testing.T) {
	pts := []*domain.Place{
		testPlace("0", 0, 0),
		testPlace("1", kmDeg, kmDeg),
		testPlace("2", kmDeg, 0),
		testPlace("3", 0, kmDeg),
	}
	dist := distanceMatrix(pts)
	order := []int{0, 1, 2, 3}

	improved := twoOpt(dist, len(pts), order)
	assert.Less(t, pathCost(dist, len(pts), improved), pathCost(dist, len(pts), order))
}

func TestNearestNeighborTourVisitsEveryNode(t *testing.T) {
	pts := []*domain.Place{
		testPlace("0", 35.000, 135.000),
		testPlace("1", 35.002, 135.001),
		testPlace("2", 35.001, 135.004),
		testPlace("3", 35.005, 135.002),
	}
	dist := distanceMatrix(pts)

	order := nearestNeighborTour(dist, len(pts), 0)
	require.Len(t, order, len(pts))
	seen := make(map[int]bool)
	for _, v := range order {
		assert.False(t, seen[v], "node %d visited twice", v)
		seen[v] = true
	}
}
