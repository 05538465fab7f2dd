package services

import (
	"context"
	"fmt"
	"time"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

// travelFunc resolves the travel minutes between two points for the
// day's mode. The engine wires it to the frozen travel matrix with a
// haversine-estimate fallback for points outside the matrix.
type travelFunc func(from, to domain.Coordinates) int

// ScheduleInput carries everything the schedule builder needs for one day.
type ScheduleInput struct {
	DayIndex         int
	Date             time.Time
	StartMinute      int
	AvailableMinutes int
	Start            domain.Coordinates
	Return           domain.Coordinates
	Mode             domain.TravelMode
	Places           []*domain.Place // primary sequence, macro order
	Backfill         []*domain.Place // interest-matching spares for slack filling
	Travel           travelFunc
	Dining           ports.DiningProvider // optional
}

// Lunch window considered for dining detours (minutes since midnight).
const (
	lunchWindowOpen  = 11 * 60
	lunchWindowClose = 14 * 60
)

// BuildDaySchedule converts an ordered place list into a timed plan.
//
// The clock advances monotonically. A place whose visit fits no opening
// period that day is skipped without consuming time. After the primary
// sequence, remaining slack above backfillSlackMinutes is filled from
// the spare candidates until it drops below backfillStopMinutes. A day
// that overruns its budget goes through the overflow-adjustment pass.
func BuildDaySchedule(ctx context.Context, in ScheduleInput) domain.DailyPlan {
	plan := domain.DailyPlan{DayIndex: in.DayIndex, Date: in.Date}
	weekday := in.Date.Weekday()

	clock := in.StartMinute
	at := in.Start
	dined := false

	appendVisit := func(p *domain.Place) bool {
		travel := in.Travel(at, p.Coordinates)
		arrival, ok := p.Hours.FitVisit(weekday, clock+travel, p.VisitMinutes)
		if !ok {
			return false
		}

		entry := domain.ScheduleEntry{
			Place:         p,
			Arrival:       arrival,
			VisitMinutes:  p.VisitMinutes,
			TravelMinutes: travel,
			TravelMode:    in.Mode,
		}

		// One dining detour per day, on the first leg whose visit ends in
		// the lunch window.
		if in.Dining != nil && !dined {
			end := arrival + p.VisitMinutes
			if end >= lunchWindowOpen && arrival <= lunchWindowClose {
				if stops, err := in.Dining.DiningOptionsBetween(ctx, at, p.Coordinates, arrival); err == nil && len(stops) > 0 {
					entry.DiningMinutes = stops[0].TotalImpact()
					entry.DiningNote = stops[0].Name
					dined = true
				}
			}
		}

		entry.Departure = arrival + p.VisitMinutes + entry.DiningMinutes
		plan.Entries = append(plan.Entries, entry)
		clock = entry.Departure
		at = p.Coordinates
		return true
	}

	for _, p := range in.Places {
		appendVisit(p)
	}

	// Backfill pass: spend leftover slack on spare interest matches.
	endTime := in.StartMinute + in.AvailableMinutes
	buffer := ReturnBuffer(in.AvailableMinutes)
	if endTime-clock-buffer > backfillSlackMinutes {
		for _, p := range in.Backfill {
			slack := endTime - clock - buffer
			if slack < backfillStopMinutes {
				break
			}
			travel := in.Travel(at, p.Coordinates)
			if travel+p.VisitMinutes > slack {
				continue
			}
			appendVisit(p)
		}
	}

	returnTravel := in.Travel(at, in.Return)
	if len(plan.Entries) == 0 {
		plan.Note = "no candidate place was open and within the time budget for this day"
		return plan
	}

	// Overflow adjustment when the day runs past the requested budget.
	dayMinutes := clock + returnTravel - in.StartMinute
	if overage := dayMinutes - in.AvailableMinutes; overage > 0 {
		unresolved := adjustOverflow(&plan, in, overage)
		plan.OverBudgetMinutes = unresolved
	}

	tallyDay(&plan, returnTravel)
	return plan
}

// adjustOverflow proportionally shaves visits longer than the floor
// until the overage is absorbed, then replays the arrival/departure
// chain with the shortened durations. Returns the unresolved overage
// (nonzero when every entry is already at or below the floor).
func adjustOverflow(plan *domain.DailyPlan, in ScheduleInput, overage int) int {
	reducible := 0
	for _, e := range plan.Entries {
		if e.VisitMinutes > visitFloorMinutes {
			reducible += e.VisitMinutes - visitFloorMinutes
		}
	}
	if reducible == 0 {
		return overage
	}

	target := overage
	if target > reducible {
		target = reducible
	}

	// Proportional shave, floor-clamped; distribute rounding remainder
	// over the longest entries first.
	shaved := 0
	for i := range plan.Entries {
		e := &plan.Entries[i]
		surplus := e.VisitMinutes - visitFloorMinutes
		if surplus <= 0 {
			continue
		}
		cut := target * surplus / reducible
		if cut > surplus {
			cut = surplus
		}
		if cut > 0 {
			e.VisitMinutes -= cut
			e.AdjustmentNote = fmt.Sprintf("visit shortened by %d min to fit the day's time budget", cut)
			shaved += cut
		}
	}
	for i := range plan.Entries {
		if shaved >= target {
			break
		}
		e := &plan.Entries[i]
		if e.VisitMinutes > visitFloorMinutes {
			e.VisitMinutes--
			shaved++
			e.AdjustmentNote = "visit shortened to fit the day's time budget"
		}
	}

	replayChain(plan, in)

	if remaining := overage - shaved; remaining > 0 {
		return remaining
	}
	return 0
}

// replayChain recomputes arrivals and departures after durations
// changed. Shorter visits still satisfy their original opening periods,
// but the clamp to a period's open time is re-applied so entries never
// start before the place opens.
func replayChain(plan *domain.DailyPlan, in ScheduleInput) {
	weekday := in.Date.Weekday()
	clock := in.StartMinute
	for i := range plan.Entries {
		e := &plan.Entries[i]
		arrival := clock + e.TravelMinutes
		if fit, ok := e.Place.Hours.FitVisit(weekday, arrival, e.VisitMinutes); ok {
			arrival = fit
		}
		e.Arrival = arrival
		e.Departure = arrival + e.VisitMinutes + e.DiningMinutes
		clock = e.Departure
	}
}

func tallyDay(plan *domain.DailyPlan, returnTravel int) {
	for _, e := range plan.Entries {
		plan.VisitMinutes += e.VisitMinutes
		plan.TravelMinutes += e.TravelMinutes
		plan.DiningMinutes += e.DiningMinutes
	}
	plan.TravelMinutes += returnTravel
}
