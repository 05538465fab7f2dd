package services

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"itinerary-planner-service/internal/domain"
)

// SelectionResult is the outcome of time-budgeted place selection.
// Selected preserves the macro-route order of the input.
type SelectionResult struct {
	Selected           []*domain.Place
	Missed             []domain.MissedPlace
	UncoveredInterests []string
}

// ReturnBuffer reserves travel time back to the start/return point
// before any place is selected.
func ReturnBuffer(availableMinutes int) int {
	buffer := int(returnBufferFraction * float64(availableMinutes))
	if buffer < returnBufferMinMinutes {
		buffer = returnBufferMinMinutes
	}
	return buffer
}

// SelectPlaces chooses which candidates fit the day's time budget using
// tiered guarantees over the macro-ordered candidate list:
//
//	Tier 1: very popular (≥5,000 reviews) interest matches, guaranteed.
//	Tier 2: popular (1,000–4,999) interest matches.
//	Tier 3: best candidate for each still-uncovered interest.
//	Tier 4: value/time efficiency fill, boosted for cluster synergy.
//
// Candidates whose visit plus estimated travel exceeds the remaining
// budget are skipped by every tier. At most maxPlacesPerDay are chosen.
func SelectPlaces(
	ordered []*domain.Place,
	start domain.Coordinates,
	availableMinutes int,
	interests []string,
	mode domain.TravelMode,
) SelectionResult {
	budget := availableMinutes - ReturnBuffer(availableMinutes)

	selected := make(map[int]struct{}, maxPlacesPerDay)
	covered := make(map[string]struct{}, len(interests))
	interestSet := make(map[string]struct{}, len(interests))
	for _, id := range interests {
		interestSet[strings.ToLower(id)] = struct{}{}
	}

	lastPoint := start
	requiredTime := func(p *domain.Place) int {
		return p.VisitMinutes + estimateTravelMinutes(lastPoint, p.Coordinates, mode)
	}

	take := func(i int) {
		p := ordered[i]
		budget -= requiredTime(p)
		selected[i] = struct{}{}
		for _, id := range matchedInterests(p, interestSet) {
			covered[id] = struct{}{}
		}
		lastPoint = p.Coordinates
	}
	full := func() bool { return len(selected) >= maxPlacesPerDay }

	// Tier 1: guaranteed very popular interest matches, popularity order.
	for _, i := range popularityOrder(ordered) {
		if full() {
			break
		}
		p := ordered[i]
		if p.ReviewCount < tierOneReviews || len(matchedInterests(p, interestSet)) == 0 {
			continue
		}
		if requiredTime(p) <= budget {
			take(i)
		}
	}

	// Tier 2: popular interest matches.
	for _, i := range popularityOrder(ordered) {
		if full() {
			break
		}
		if _, ok := selected[i]; ok {
			continue
		}
		p := ordered[i]
		if p.ReviewCount < tierTwoMinReviews || p.ReviewCount >= tierOneReviews {
			continue
		}
		if len(matchedInterests(p, interestSet)) == 0 {
			continue
		}
		if requiredTime(p) <= budget {
			take(i)
		}
	}

	// Tier 3: cover each remaining interest with its best-fitting candidate.
	for _, id := range sortedInterests(interestSet) {
		if full() {
			break
		}
		if _, ok := covered[id]; ok {
			continue
		}
		best := -1
		for i, p := range ordered {
			if _, ok := selected[i]; ok {
				continue
			}
			if !p.HasCategory(id) || requiredTime(p) > budget {
				continue
			}
			if best == -1 || ordered[i].MatchScore > ordered[best].MatchScore ||
				(ordered[i].MatchScore == ordered[best].MatchScore && p.ReviewCount > ordered[best].ReviewCount) {
				best = i
			}
		}
		if best >= 0 {
			take(best)
		}
	}

	// Tier 4: efficiency fill with cluster synergy.
	for !full() {
		best, bestEff := -1, 0.0
		for i, p := range ordered {
			if _, ok := selected[i]; ok {
				continue
			}
			need := requiredTime(p)
			if need > budget || need == 0 {
				continue
			}
			eff := placeValue(p, interestSet) / float64(need)
			if nearSelected(p, ordered, selected) {
				eff *= synergyBoost
			}
			if eff > bestEff {
				best, bestEff = i, eff
			}
		}
		if best == -1 {
			break
		}
		take(best)
	}

	return buildSelectionResult(ordered, selected, covered, interestSet)
}

// placeValue scores a candidate for Tier-4 efficiency ranking.
func placeValue(p *domain.Place, interestSet map[string]struct{}) float64 {
	value := ratingValueWeight * p.Rating

	for _, tier := range popularityValueTiers {
		if p.ReviewCount >= tier.MinReviews {
			value += tier.Value
			break
		}
	}

	if p.Attraction {
		bonus := attractionValue
		if p.ReviewCount >= tierOneReviews {
			bonus *= 2
		}
		value += bonus
	}

	matched := matchedInterests(p, interestSet)
	value += matchScoreValueWeight * p.MatchScore
	value += interestCountValue * float64(len(matched))
	return value
}

// nearSelected reports whether p lies within the cluster-synergy radius
// of an already-selected place.
func nearSelected(p *domain.Place, ordered []*domain.Place, selected map[int]struct{}) bool {
	for i := range selected {
		if haversineKm(p.Coordinates, ordered[i].Coordinates) <= synergyRadiusKm {
			return true
		}
	}
	return false
}

func popularityOrder(places []*domain.Place) []int {
	idx := make([]int, len(places))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return byPopularity(places[a], places[b]) })
	return idx
}

func sortedInterests(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func buildSelectionResult(
	ordered []*domain.Place,
	selected map[int]struct{},
	covered map[string]struct{},
	interestSet map[string]struct{},
) SelectionResult {
	res := SelectionResult{}

	for i, p := range ordered {
		if _, ok := selected[i]; ok {
			res.Selected = append(res.Selected, p)
			continue
		}
		if p.ReviewCount >= tierOneReviews {
			res.Missed = append(res.Missed, domain.MissedPlace{
				Place:  p,
				Reason: fmt.Sprintf("did not fit the day's time budget (%d min visit)", p.VisitMinutes),
			})
		}
	}

	for _, id := range sortedInterests(interestSet) {
		if _, ok := covered[id]; !ok {
			res.UncoveredInterests = append(res.UncoveredInterests, id)
		}
	}
	return res
}
