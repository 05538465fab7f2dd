package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"itinerary-planner-service/internal/ports"
)

// Spare interest-matching candidates offered to the backfill pass per day.
const maxBackfillCandidates = 8

// Engine wires the optimization pipeline to its collaborators. The core
// stages are pure and synchronous; the only concurrency is the travel
// matrix fetch. An Engine is safe for concurrent use: nothing is shared
// across invocations.
type Engine struct {
	Catalog ports.PlaceCatalog
	Travel  ports.TravelTimeProvider
	Dining  ports.DiningProvider // optional
}

func NewEngine(catalog ports.PlaceCatalog, travel ports.TravelTimeProvider, dining ports.DiningProvider) *Engine {
	return &Engine{Catalog: catalog, Travel: travel, Dining: dining}
}

// GenerateSingleDayPlan produces the timed plan for a one-day request.
// Infeasibility (nothing matches, nothing open) yields an empty plan
// with an explanatory note, not an error.
func (e *Engine) GenerateSingleDayPlan(ctx context.Context, req *domain.TripRequest) (_ *domain.DailyPlan, err error) {
	defer obs.Time(ctx, "engine.GenerateSingleDayPlan")(&err)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("generate single day plan: %w", err)
	}

	macro, err := e.macroOrderedCandidates(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate single day plan: %w", err)
	}
	if len(macro) == 0 {
		return &domain.DailyPlan{
			Date: req.StartDate,
			Note: "no candidate places matched the selected interests",
		}, nil
	}

	sel := SelectPlaces(macro, req.Start, req.DailyMinutes, req.Interests, req.Mode)
	backfill := backfillCandidates(macro, sel.Selected, req.Interests)

	plan, err := e.scheduleDay(ctx, req, 0, req.StartDate, sel.Selected, backfill)
	if err != nil {
		return nil, fmt.Errorf("generate single day plan: %w", err)
	}
	if len(sel.UncoveredInterests) > 0 && plan.Note == "" {
		plan.Note = "interests not covered: " + strings.Join(sel.UncoveredInterests, ", ")
	}
	return plan, nil
}

// GenerateMultiDayPlan distributes clusters over the requested date
// range and builds each day's schedule, guaranteeing that no place
// appears on more than one day.
func (e *Engine) GenerateMultiDayPlan(ctx context.Context, req *domain.TripRequest) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "engine.GenerateMultiDayPlan")(&err)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("generate multi day plan: %w", err)
	}

	trip := &domain.TripPlan{ID: uuid.NewString()}

	clusters, err := e.orderedClusters(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate multi day plan: %w", err)
	}
	if len(clusters) == 0 {
		trip.UncoveredInterests = lowercased(req.Interests)
		for d := 0; d < req.Days; d++ {
			trip.Days = append(trip.Days, domain.DailyPlan{
				DayIndex: d,
				Date:     req.StartDate.AddDate(0, 0, d),
				Note:     "no candidate places matched the selected interests",
			})
		}
		return trip, nil
	}

	dist := DistributeClusters(clusters, req)
	trip.MissedPlaces = append(trip.MissedPlaces, dist.Missed...)

	covered := make(map[string]struct{})
	for d := range dist.Days {
		date := dist.Days[d].Date

		// Per-day re-verification: a cluster valid in general may still
		// hold members closed on this specific date.
		weekday := date.Weekday()
		dayPlaces := make([]*domain.Place, 0, len(dist.Days[d].Places))
		for _, p := range dist.Days[d].Places {
			if p.Hours.OpenOn(weekday) {
				dayPlaces = append(dayPlaces, p)
			}
		}

		sel := SelectPlaces(dayPlaces, req.Start, req.DailyMinutes, req.Interests, req.Mode)
		backfill := backfillCandidates(dayPlaces, sel.Selected, req.Interests)

		plan, err := e.scheduleDay(ctx, req, d, date, sel.Selected, backfill)
		if err != nil {
			return nil, fmt.Errorf("generate multi day plan: day %d: %w", d, err)
		}

		interestSet := selectedSet(req.Interests)
		for _, entry := range plan.Entries {
			for _, id := range matchedInterests(entry.Place, interestSet) {
				covered[id] = struct{}{}
			}
		}
		trip.MissedPlaces = append(trip.MissedPlaces, sel.Missed...)

		trip.Days = append(trip.Days, *plan)
		trip.VisitMinutes += plan.VisitMinutes
		trip.TravelMinutes += plan.TravelMinutes
		trip.DiningMinutes += plan.DiningMinutes
	}

	for _, id := range lowercased(req.Interests) {
		if _, ok := covered[id]; !ok {
			trip.UncoveredInterests = append(trip.UncoveredInterests, id)
		}
	}
	trip.MissedPlaces = pruneScheduled(trip)
	return trip, nil
}

// macroOrderedCandidates runs prioritization, clustering and both
// sequencing stages, returning the flattened macro-ordered place list.
func (e *Engine) macroOrderedCandidates(ctx context.Context, req *domain.TripRequest) ([]*domain.Place, error) {
	clusters, err := e.orderedClusters(ctx, req)
	if err != nil {
		return nil, err
	}
	var macro []*domain.Place
	for _, c := range clusters {
		macro = append(macro, c.Places...)
	}
	return macro, nil
}

func (e *Engine) orderedClusters(ctx context.Context, req *domain.TripRequest) ([]*domain.Cluster, error) {
	catalog, err := e.Catalog.ListPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}

	candidates := PrioritizePlaces(catalog, req.Interests)
	if len(candidates) == 0 {
		return nil, nil
	}

	clusters := BuildClusters(candidates)
	for _, c := range clusters {
		OrderClusterPlaces(c, req.Mode)
	}
	return OrderClusters(clusters), nil
}

// scheduleDay freezes a travel matrix over the day's points and runs
// the schedule builder against it. Sequencing never observes a
// partially filled matrix.
func (e *Engine) scheduleDay(
	ctx context.Context,
	req *domain.TripRequest,
	dayIndex int,
	date time.Time,
	selected []*domain.Place,
	backfill []*domain.Place,
) (*domain.DailyPlan, error) {
	points := make([]domain.Coordinates, 0, len(selected)+len(backfill)+2)
	index := make(map[string]int)
	addPoint := func(c domain.Coordinates) {
		if _, ok := index[c.Key()]; ok {
			return
		}
		index[c.Key()] = len(points)
		points = append(points, c)
	}
	addPoint(req.Start)
	addPoint(req.ReturnPoint())
	for _, p := range selected {
		addPoint(p.Coordinates)
	}
	for _, p := range backfill {
		addPoint(p.Coordinates)
	}

	matrix, err := FetchTravelMatrix(ctx, e.Travel, points, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("fetch travel matrix: %w", err)
	}

	travel := func(from, to domain.Coordinates) int {
		i, okFrom := index[from.Key()]
		j, okTo := index[to.Key()]
		if okFrom && okTo {
			return matrix.TravelMinutes(i, j)
		}
		return estimateTravelMinutes(from, to, req.Mode)
	}

	plan := BuildDaySchedule(ctx, ScheduleInput{
		DayIndex:         dayIndex,
		Date:             date,
		StartMinute:      req.StartMinute,
		AvailableMinutes: req.DailyMinutes,
		Start:            req.Start,
		Return:           req.ReturnPoint(),
		Mode:             req.Mode,
		Places:           selected,
		Backfill:         backfill,
		Travel:           travel,
		Dining:           e.Dining,
	})
	return &plan, nil
}

func backfillCandidates(ordered, selected []*domain.Place, interests []string) []*domain.Place {
	chosen := make(map[string]struct{}, len(selected))
	for _, p := range selected {
		chosen[p.ID] = struct{}{}
	}
	interestSet := selectedSet(interests)

	var out []*domain.Place
	for _, p := range ordered {
		if len(out) >= maxBackfillCandidates {
			break
		}
		if _, ok := chosen[p.ID]; ok {
			continue
		}
		if len(matchedInterests(p, interestSet)) > 0 {
			out = append(out, p)
		}
	}
	return out
}

func selectedSet(interests []string) map[string]struct{} {
	set := make(map[string]struct{}, len(interests))
	for _, id := range interests {
		set[strings.ToLower(id)] = struct{}{}
	}
	return set
}

func lowercased(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strings.ToLower(id))
	}
	return out
}

// pruneScheduled drops missed-place records for places that did make
// the final plan (e.g. via backfill on a later day).
func pruneScheduled(trip *domain.TripPlan) []domain.MissedPlace {
	scheduled := make(map[string]struct{})
	for _, day := range trip.Days {
		for _, e := range day.Entries {
			scheduled[e.Place.ID] = struct{}{}
		}
	}
	out := make([]domain.MissedPlace, 0, len(trip.MissedPlaces))
	seen := make(map[string]struct{})
	for _, m := range trip.MissedPlaces {
		if _, ok := scheduled[m.Place.ID]; ok {
			continue
		}
		if _, ok := seen[m.Place.ID]; ok {
			continue
		}
		seen[m.Place.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
