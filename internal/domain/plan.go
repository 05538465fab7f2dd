package domain

import "time"

// ScheduleEntry is one timed stop in a daily plan. Arrival and
// Departure are minutes since midnight of the plan's date.
type ScheduleEntry struct {
	Place          *Place
	Arrival        int
	Departure      int
	VisitMinutes   int
	TravelMinutes  int // travel from the previous stop (or day start)
	TravelMode     TravelMode
	DiningMinutes  int    // detour + dining impact added after this visit
	DiningNote     string // human-readable dining stop description
	AdjustmentNote string // set when the overflow pass shortened this visit
}

// DailyPlan is the ordered, time-stamped schedule for one day.
// It is immutable after the schedule builder returns; later edits are
// whole-plan transformations.
type DailyPlan struct {
	DayIndex      int
	Date          time.Time
	Entries       []ScheduleEntry
	VisitMinutes  int
	TravelMinutes int
	DiningMinutes int
	// OverBudgetMinutes is nonzero when the day exceeds the requested
	// budget and no entry remained above the adjustment floor.
	OverBudgetMinutes int
	Note              string
}

// PlaceIDs returns the scheduled place identifiers in visit order.
func (d *DailyPlan) PlaceIDs() []string {
	ids := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		ids = append(ids, e.Place.ID)
	}
	return ids
}

// MissedPlace records a high-value candidate that did not make the plan.
type MissedPlace struct {
	Place  *Place
	Reason string
}

// TripPlan is the full multi-day itinerary.
type TripPlan struct {
	ID                 string
	Days               []DailyPlan
	VisitMinutes       int
	TravelMinutes      int
	DiningMinutes      int
	UncoveredInterests []string
	MissedPlaces       []MissedPlace
}
