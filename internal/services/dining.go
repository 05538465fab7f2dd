package services

import (
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

// AddReturnDiningStop returns a copy of the plan with a dining stop
// attached to the final entry (eating on the way back). Daily plans are
// immutable after the schedule builder returns, so this is a whole-plan
// transformation rather than an in-place edit.
func AddReturnDiningStop(plan *domain.DailyPlan, stop ports.DiningStop) *domain.DailyPlan {
	out := clonePlan(plan)
	if len(out.Entries) == 0 {
		return out
	}
	last := &out.Entries[len(out.Entries)-1]
	delta := stop.TotalImpact() - last.DiningMinutes
	last.DiningMinutes = stop.TotalImpact()
	last.DiningNote = stop.Name
	last.Departure += delta
	out.DiningMinutes += delta
	return out
}

// RemoveReturnDiningStop returns a copy of the plan with the final
// entry's dining annotation cleared.
func RemoveReturnDiningStop(plan *domain.DailyPlan) *domain.DailyPlan {
	out := clonePlan(plan)
	if len(out.Entries) == 0 {
		return out
	}
	last := &out.Entries[len(out.Entries)-1]
	out.DiningMinutes -= last.DiningMinutes
	last.Departure -= last.DiningMinutes
	last.DiningMinutes = 0
	last.DiningNote = ""
	return out
}

func clonePlan(plan *domain.DailyPlan) *domain.DailyPlan {
	out := *plan
	out.Entries = append([]domain.ScheduleEntry(nil), plan.Entries...)
	return &out
}
