package dto

type PlanRequest struct {
	Interests    []string `json:"interests"`
	StartLat     *float64 `json:"start_lat"`
	StartLon     *float64 `json:"start_lon"`
	StartAddress string   `json:"start_address"`
	ReturnLat    *float64 `json:"return_lat"`
	ReturnLon    *float64 `json:"return_lon"`
	DailyHours   float64  `json:"daily_hours"`
	StartTime    string   `json:"start_time"` // "09:00"
	StartDate    string   `json:"start_date"` // "2026-04-01"
	Days         int      `json:"days"`
	Mode         string   `json:"mode"`
}

type ScheduleEntryResponse struct {
	PlaceID        string `json:"place_id"`
	Name           string `json:"name"`
	Arrival        string `json:"arrival"`
	Departure      string `json:"departure"`
	VisitMinutes   int    `json:"visit_minutes"`
	TravelMinutes  int    `json:"travel_minutes"`
	TravelMode     string `json:"travel_mode"`
	DiningMinutes  int    `json:"dining_minutes,omitempty"`
	DiningNote     string `json:"dining_note,omitempty"`
	AdjustmentNote string `json:"adjustment_note,omitempty"`
}

type DailyPlanResponse struct {
	DayIndex          int                     `json:"day_index"`
	Date              string                  `json:"date"`
	Entries           []ScheduleEntryResponse `json:"entries"`
	VisitMinutes      int                     `json:"visit_minutes"`
	TravelMinutes     int                     `json:"travel_minutes"`
	DiningMinutes     int                     `json:"dining_minutes"`
	OverBudgetMinutes int                     `json:"over_budget_minutes,omitempty"`
	Note              string                  `json:"note,omitempty"`
}

type MissedPlaceResponse struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
	Reason  string `json:"reason"`
}

type TripPlanResponse struct {
	PlanID             string                `json:"plan_id"`
	Days               []DailyPlanResponse   `json:"days"`
	VisitMinutes       int                   `json:"visit_minutes"`
	TravelMinutes      int                   `json:"travel_minutes"`
	DiningMinutes      int                   `json:"dining_minutes"`
	UncoveredInterests []string              `json:"uncovered_interests,omitempty"`
	MissedPlaces       []MissedPlaceResponse `json:"missed_places,omitempty"`
}
