package services

import (
	"slices"
	"strings"

	"itinerary-planner-service/internal/domain"
)

// interestCategories are the category tags the traveler can select as
// interests. Negative filtering only considers these: a place dominated
// by unselected tags from this set is assumed to not interest the
// traveler, while neutral tags (e.g. "establishment") carry no signal.
var interestCategories = map[string]struct{}{
	"park": {}, "museum": {}, "gallery": {}, "temple": {}, "church": {},
	"beach": {}, "nightlife": {}, "shopping": {}, "food": {}, "market": {},
	"zoo": {}, "aquarium": {}, "theater": {}, "stadium": {}, "viewpoint": {},
	"historic": {}, "nature": {}, "amusement": {},
}

// PrioritizePlaces scores, filters and orders the candidate set against
// the selected interests. The returned slice holds copies of the catalog
// records with MatchScore populated; the catalog's instances are never
// written to.
//
// The final order is total and stable: review count desc, match score
// desc, rating desc, name asc.
func PrioritizePlaces(catalog []*domain.Place, interests []string) []*domain.Place {
	selected := make(map[string]struct{}, len(interests))
	for _, id := range interests {
		selected[strings.ToLower(id)] = struct{}{}
	}

	out := make([]*domain.Place, 0, len(catalog))
	for _, p := range catalog {
		if excludedByInterests(p, selected) {
			continue
		}
		scored := *p
		scored.MatchScore = matchScore(p, selected)
		out = append(out, &scored)
	}

	slices.SortStableFunc(out, func(a, b *domain.Place) int {
		if a.ReviewCount != b.ReviewCount {
			if a.ReviewCount > b.ReviewCount {
				return -1
			}
			return 1
		}
		if a.MatchScore != b.MatchScore {
			if a.MatchScore > b.MatchScore {
				return -1
			}
			return 1
		}
		if a.Rating != b.Rating {
			if a.Rating > b.Rating {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})

	return out
}

// matchedInterests returns the selected interest ids the place's
// categories cover.
func matchedInterests(p *domain.Place, selected map[string]struct{}) []string {
	var hits []string
	for _, c := range p.Categories {
		c = strings.ToLower(c)
		if _, ok := selected[c]; ok {
			hits = append(hits, c)
		}
	}
	return hits
}

func matchScore(p *domain.Place, selected map[string]struct{}) float64 {
	score := float64(len(matchedInterests(p, selected))) * interestMatchPoints

	for _, tier := range popularityTiers {
		if p.ReviewCount >= tier.MinReviews {
			score += tier.Bonus
			break
		}
	}

	if p.Attraction {
		score += attractionPoints
	}

	// Keyword hits: a selected interest named in the place's text.
	text := strings.ToLower(p.Name + " " + p.Description)
	for id := range selected {
		if strings.Contains(text, id) {
			score += keywordPoints
		}
	}

	return score
}

// excludedByInterests applies negative filtering: a place whose
// interest-typed categories are dominated by unselected ones is dropped.
// Tourist attractions and very popular places are never excluded.
func excludedByInterests(p *domain.Place, selected map[string]struct{}) bool {
	if p.Attraction || p.ReviewCount >= neverExcludeReviews {
		return false
	}

	typed, unmatched := 0, 0
	for _, c := range p.Categories {
		c = strings.ToLower(c)
		if _, known := interestCategories[c]; !known {
			continue
		}
		typed++
		if _, ok := selected[c]; !ok {
			unmatched++
		}
	}
	if typed == 0 {
		return false
	}
	return float64(unmatched) > dominanceShare*float64(typed)
}
