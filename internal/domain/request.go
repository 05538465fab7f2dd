package domain

import (
	"errors"
	"time"
)

// TripRequest describes one planning invocation: which interests the
// traveler selected, where each day starts and ends, and how much time
// is available per day.
type TripRequest struct {
	Interests    []string
	Start        Coordinates
	Return       *Coordinates // nil means return to Start
	DailyMinutes int          // available minutes per day
	StartMinute  int          // minutes since midnight each day begins
	StartDate    time.Time
	Days         int
	Mode         TravelMode
}

// ReturnPoint resolves the end-of-day location.
func (r *TripRequest) ReturnPoint() Coordinates {
	if r.Return != nil {
		return *r.Return
	}
	return r.Start
}

// Validate rejects structurally malformed requests. Ordinary
// infeasibility (no matching candidates, no open places) is not an
// error and is reported through the plan itself.
func (r *TripRequest) Validate() error {
	if r.DailyMinutes <= 0 {
		return errors.New("trip request: daily minutes must be positive")
	}
	if r.StartMinute < 0 || r.StartMinute >= 24*60 {
		return errors.New("trip request: start minute out of range")
	}
	if r.Days < 1 {
		return errors.New("trip request: days must be at least 1")
	}
	if r.Mode == "" {
		return errors.New("trip request: travel mode is required")
	}
	return nil
}
