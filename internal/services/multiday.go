package services

import (
	"math"
	"time"

	"itinerary-planner-service/internal/domain"
)

// dayLoad tracks one calendar day's assignments during distribution.
type dayLoad struct {
	Date        time.Time
	UsedMinutes int
	Places      []*domain.Place
}

// Distribution is the outcome of assigning clusters to days.
type Distribution struct {
	Days   []dayLoad
	Missed []domain.MissedPlace
}

// DistributeClusters assigns whole clusters (keeping members together)
// to calendar days, falling back to per-place assignment for clusters
// that fit no day. A global used-place set guarantees no place lands on
// two days.
func DistributeClusters(clusters []*domain.Cluster, req *domain.TripRequest) Distribution {
	dist := Distribution{Days: make([]dayLoad, req.Days)}
	for d := 0; d < req.Days; d++ {
		dist.Days[d] = dayLoad{Date: req.StartDate.AddDate(0, 0, d)}
	}

	total := 0
	for _, c := range clusters {
		total += c.Size()
	}
	meanPerDay := float64(total) / float64(req.Days)

	used := make(map[string]struct{}, total)
	capacity := req.DailyMinutes - ReturnBuffer(req.DailyMinutes)

	for _, c := range clusters {
		bestDay, bestScore := -1, 0.0
		for d := range dist.Days {
			s := clusterDayScore(c, &dist.Days[d], capacity, req.StartMinute, meanPerDay)
			if s > bestScore {
				bestDay, bestScore = d, s
			}
		}
		if bestDay >= 0 {
			assignAll(&dist.Days[bestDay], c.Places, used)
			dist.Days[bestDay].UsedMinutes += c.TotalMinutes
			continue
		}
		distributeLoose(c, &dist, capacity, req, used)
	}
	return dist
}

// clusterDayScore scores placing the cluster on the day. Returns 0 for
// ineligible pairs: a member closed on that date, or total time beyond
// the day's remaining capacity.
func clusterDayScore(c *domain.Cluster, day *dayLoad, capacity, startMinute int, meanPerDay float64) float64 {
	weekday := day.Date.Weekday()
	for _, p := range c.Places {
		if !p.Hours.OpenOn(weekday) {
			return 0
		}
	}
	remaining := capacity - day.UsedMinutes
	if c.TotalMinutes > remaining {
		return 0
	}

	score := timeFitScore(day.UsedMinutes, c.TotalMinutes, capacity)
	score += openAlignmentScore(c, weekday, startMinute+day.UsedMinutes)
	score += daySynergyScore(c, day)
	score -= loadBalanceWeight * math.Abs(float64(len(day.Places)+c.Size())-meanPerDay)

	if score <= 0 {
		// Eligible pairs always stay distinguishable from ineligible ones.
		score = 1
	}
	return score
}

// timeFitScore rewards utilization of the day's capacity, peaking in
// the 70–90% band and falling off linearly on both sides.
func timeFitScore(used, add, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	u := float64(used+add) / float64(capacity)
	switch {
	case u >= utilizationIdealLow && u <= utilizationIdealHigh:
		return timeFitWeight
	case u < utilizationIdealLow:
		return timeFitWeight * u / utilizationIdealLow
	default:
		return timeFitWeight * math.Max(0, (1-u)/(1-utilizationIdealHigh))
	}
}

// openAlignmentScore rewards visiting the cluster near its aggregate
// mid-window and penalizes a likely start before opening.
func openAlignmentScore(c *domain.Cluster, weekday time.Weekday, visitStart int) float64 {
	mids := 0
	sum := 0
	earliestOpen := math.MaxInt
	for _, p := range c.Places {
		if mid, ok := p.Hours.MidWindow(weekday); ok {
			sum += mid
			mids++
			for _, period := range p.Hours.On(weekday) {
				if period.Opens < earliestOpen {
					earliestOpen = period.Opens
				}
			}
		}
	}
	if mids == 0 {
		return 0
	}

	visitMid := visitStart + c.TotalMinutes/2
	offset := math.Abs(float64(visitMid - sum/mids))
	score := openAlignmentWeight * math.Max(0, 1-offset/(12*60))
	if earliestOpen != math.MaxInt && visitStart < earliestOpen {
		score -= openAlignmentWeight * float64(earliestOpen-visitStart) / (12 * 60)
	}
	return score
}

// daySynergyScore rewards geographic and thematic affinity with places
// already assigned to the day.
func daySynergyScore(c *domain.Cluster, day *dayLoad) float64 {
	if len(day.Places) == 0 {
		return 0
	}
	score := 0.0
	for _, q := range day.Places {
		d := haversineKm(c.Centroid, q.Coordinates)
		if d <= synergyBandKm {
			score += daySynergyWeight * (1 - d/synergyBandKm)
		}
		for _, p := range c.Places {
			if sharesCategory(p, q) {
				score += sharedTypeBonus
				break
			}
		}
	}
	return score
}

func sharesCategory(a, b *domain.Place) bool {
	for _, c := range a.Categories {
		if b.HasCategory(c) {
			return true
		}
	}
	return false
}

// distributeLoose assigns a cluster's members individually when the
// cluster as a whole fits no day, using the same feasibility checks.
func distributeLoose(c *domain.Cluster, dist *Distribution, capacity int, req *domain.TripRequest, used map[string]struct{}) {
	for _, p := range c.Places {
		if _, ok := used[p.ID]; ok {
			continue
		}
		need := p.VisitMinutes + estimateTravelMinutes(c.Centroid, p.Coordinates, req.Mode)

		bestDay, bestFit := -1, 0.0
		for d := range dist.Days {
			day := &dist.Days[d]
			if !p.Hours.OpenOn(day.Date.Weekday()) {
				continue
			}
			if need > capacity-day.UsedMinutes {
				continue
			}
			fit := timeFitScore(day.UsedMinutes, need, capacity)
			if bestDay == -1 || fit > bestFit {
				bestDay, bestFit = d, fit
			}
		}
		if bestDay == -1 {
			dist.Missed = append(dist.Missed, domain.MissedPlace{
				Place:  p,
				Reason: "no day had both open hours and remaining capacity",
			})
			continue
		}
		assignAll(&dist.Days[bestDay], []*domain.Place{p}, used)
		dist.Days[bestDay].UsedMinutes += need
	}
}

func assignAll(day *dayLoad, places []*domain.Place, used map[string]struct{}) {
	for _, p := range places {
		if _, ok := used[p.ID]; ok {
			continue
		}
		used[p.ID] = struct{}{}
		day.Places = append(day.Places, p)
	}
}
