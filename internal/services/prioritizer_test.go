package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-planner-service/internal/domain"
)

func testPlace(id string, lat, lon float64) *domain.Place {
	return &domain.Place{
		ID:           id,
		Name:         id,
		Coordinates:  domain.Coordinates{Lat: lat, Lon: lon},
		ReviewCount:  1000,
		Rating:       4.0,
		VisitMinutes: 60,
	}
}

func TestPrioritizeOrdersByReviewsThenMatch(t *testing.T) {
	a := testPlace("a", 35, 135)
	a.Categories = []string{"museum"}
	a.ReviewCount = 2000

	b := testPlace("b", 35, 135)
	b.Categories = []string{"museum"}
	b.ReviewCount = 9000

	c := testPlace("c", 35, 135)
	c.Categories = []string{"museum"}
	c.ReviewCount = 2000
	c.Rating = 4.8

	out := PrioritizePlaces([]*domain.Place{a, b, c}, []string{"museum"})
	require.Len(t, out, 3)

	assert.Equal(t, "b", out[0].ID)
	// a and c tie on reviews and match score; the higher rating wins.
	assert.Equal(t, "c", out[1].ID)
	assert.Equal(t, "a", out[2].ID)
}

func TestPrioritizeDoesNotMutateCatalog(t *testing.T) {
	p := testPlace("p", 35, 135)
	p.Categories = []string{"museum"}

	out := PrioritizePlaces([]*domain.Place{p}, []string{"museum"})
	require.Len(t, out, 1)

	assert.Zero(t, p.MatchScore, "catalog instance must stay untouched")
	assert.Positive(t, out[0].MatchScore)
}

func TestNegativeFilteringDropsDominatedPlaces(t *testing.T) {
	bar := testPlace("bar", 35, 135)
	bar.Categories = []string{"nightlife", "shopping"}
	bar.ReviewCount = 300

	out := PrioritizePlaces([]*domain.Place{bar}, []string{"museum"})
	assert.Empty(t, out, "both interest-typed categories are unselected")
}

func TestNegativeFilteringSparesAttractionsAndPopularPlaces(t *testing.T) {
	landmark := testPlace("landmark", 35, 135)
	landmark.Categories = []string{"nightlife"}
	landmark.Attraction = true
	landmark.ReviewCount = 40

	famous := testPlace("famous", 35, 135)
	famous.Categories = []string{"nightlife"}
	famous.ReviewCount = 12000

	out := PrioritizePlaces([]*domain.Place{landmark, famous}, []string{"museum"})
	require.Len(t, out, 2)
}

func TestNeutralCategoriesCarryNoFilterSignal(t *testing.T) {
	p := testPlace("p", 35, 135)
	p.Categories = []string{"establishment", "point_of_interest"}
	p.ReviewCount = 50

	out := PrioritizePlaces([]*domain.Place{p}, []string{"museum"})
	assert.Len(t, out, 1, "untyped categories never dominate")
}

func TestMatchScoreComponents(t *testing.T) {
	p := testPlace("city museum", 35, 135)
	p.Name = "City Museum"
	p.Categories = []string{"museum", "park"}
	p.ReviewCount = 2500
	p.Attraction = true

	selected := map[string]struct{}{"museum": {}, "park": {}}
	score := matchScore(p, selected)

	// 2 matches, the 2000-review tier, the attraction bonus, and one
	// keyword hit ("museum" appears in the name).
	want := 2*interestMatchPoints + 10.0 + attractionPoints + keywordPoints
	assert.InDelta(t, want, score, 1e-9)
}
