package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-planner-service/internal/domain"
)

func TestReturnBuffer(t *testing.T) {
	assert.Equal(t, 48, ReturnBuffer(480), "ten percent of the day once above the floor")
	assert.Equal(t, 20, ReturnBuffer(100), "floor applies to short days")
}

// A tight budget keeps the guaranteed popular match, adds the popular
// one, and has no room left for a long low-value visit.
func TestSelectPlacesTieredBudget(t *testing.T) {
	start := domain.Coordinates{Lat: 35, Lon: 135}

	big := testPlace("big-museum", 35, 135)
	big.Categories = []string{"museum"}
	big.ReviewCount = 6000
	big.VisitMinutes = 90

	mid := testPlace("mid-museum", 35, 135)
	mid.Categories = []string{"museum"}
	mid.ReviewCount = 1200
	mid.VisitMinutes = 60

	slow := testPlace("slow", 35, 135)
	slow.ReviewCount = 10
	slow.VisitMinutes = 200

	res := SelectPlaces(
		[]*domain.Place{big, mid, slow},
		start, 300, []string{"museum", "beach"}, domain.ModeWalking,
	)

	ids := make([]string, 0, len(res.Selected))
	for _, p := range res.Selected {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"big-museum", "mid-museum"}, ids)
	assert.Equal(t, []string{"beach"}, res.UncoveredInterests)
}

func TestSelectPlacesReportsMissedPopularPlace(t *testing.T) {
	start := domain.Coordinates{Lat: 35, Lon: 135}

	huge := testPlace("huge", 35, 135)
	huge.Categories = []string{"museum"}
	huge.ReviewCount = 8000
	huge.VisitMinutes = 500 // never fits a 300 minute day

	res := SelectPlaces([]*domain.Place{huge}, start, 300, []string{"museum"}, domain.ModeWalking)

	assert.Empty(t, res.Selected)
	require.Len(t, res.Missed, 1)
	assert.Equal(t, "huge", res.Missed[0].Place.ID)
	assert.NotEmpty(t, res.Missed[0].Reason)
}

func TestSelectPlacesCoversUncoveredInterestViaTierThree(t *testing.T) {
	start := domain.Coordinates{Lat: 35, Lon: 135}

	popular := testPlace("popular-museum", 35, 135)
	popular.Categories = []string{"museum"}
	popular.ReviewCount = 7000

	quietPark := testPlace("quiet-park", 35, 135)
	quietPark.Categories = []string{"park"}
	quietPark.ReviewCount = 80
	quietPark.MatchScore = 10

	res := SelectPlaces(
		[]*domain.Place{popular, quietPark},
		start, 480, []string{"museum", "park"}, domain.ModeWalking,
	)

	ids := make(map[string]bool)
	for _, p := range res.Selected {
		ids[p.ID] = true
	}
	assert.True(t, ids["popular-museum"])
	assert.True(t, ids["quiet-park"], "tier 3 covers the park interest despite low popularity")
	assert.Empty(t, res.UncoveredInterests)
}

func TestSelectPlacesRespectsDayCap(t *testing.T) {
	start := domain.Coordinates{Lat: 35, Lon: 135}

	places := make([]*domain.Place, 0, 25)
	for i := 0; i < 25; i++ {
		p := testPlace(string(rune('a'+i)), 35, 135)
		p.Categories = []string{"museum"}
		p.ReviewCount = 6000 + i
		p.VisitMinutes = 10
		places = append(places, p)
	}

	res := SelectPlaces(places, start, 1440, []string{"museum"}, domain.ModeWalking)
	assert.LessOrEqual(t, len(res.Selected), 16)
}

func TestSelectPlacesPreservesMacroOrder(t *testing.T) {
	start := domain.Coordinates{Lat: 35, Lon: 135}

	first := testPlace("first", 35, 135)
	first.Categories = []string{"museum"}
	first.ReviewCount = 1500

	second := testPlace("second", 35, 135)
	second.Categories = []string{"museum"}
	second.ReviewCount = 9000

	res := SelectPlaces(
		[]*domain.Place{first, second},
		start, 480, []string{"museum"}, domain.ModeWalking,
	)
	require.Len(t, res.Selected, 2)

	// second is picked before first (tier 1 vs tier 2) but the result
	// keeps the macro route order of the input.
	assert.Equal(t, "first", res.Selected[0].ID)
	assert.Equal(t, "second", res.Selected[1].ID)
}
