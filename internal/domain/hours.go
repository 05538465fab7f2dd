package domain

import "time"

// OpenPeriod is one contiguous opening window on a single weekday,
// expressed in minutes since midnight. Closes is exclusive.
type OpenPeriod struct {
	Opens  int `json:"opens"`
	Closes int `json:"closes"`
}

// Contains reports whether the visit [start, start+duration] fits
// entirely inside the period.
func (p OpenPeriod) Contains(start, duration int) bool {
	return start >= p.Opens && start+duration <= p.Closes
}

// WeekHours holds the opening periods for each weekday, indexed by
// time.Weekday (Sunday == 0). A day may carry zero or more disjoint
// periods ("split hours"). A fully empty WeekHours means the catalog
// has no opening data for the place and no constraint applies.
type WeekHours [7][]OpenPeriod

// HasData reports whether any weekday carries opening periods.
func (w WeekHours) HasData() bool {
	for _, day := range w {
		if len(day) > 0 {
			return true
		}
	}
	return false
}

// On returns the opening periods for the given weekday.
func (w WeekHours) On(day time.Weekday) []OpenPeriod {
	return w[int(day)]
}

// OpenOn reports whether the place has at least one period on the weekday.
// Places without any opening data are treated as always open.
func (w WeekHours) OpenOn(day time.Weekday) bool {
	if !w.HasData() {
		return true
	}
	return len(w[int(day)]) > 0
}

// FitVisit finds the earliest period on the weekday that can contain a
// visit of the given duration arriving no earlier than arrival. The
// returned start is arrival, clamped forward to the period's open time
// when the place has not opened yet. ok is false when no period on that
// day accommodates the visit.
//
// Places without opening data accept any arrival.
func (w WeekHours) FitVisit(day time.Weekday, arrival, duration int) (start int, ok bool) {
	if !w.HasData() {
		return arrival, true
	}
	for _, p := range w[int(day)] {
		s := arrival
		if s < p.Opens {
			s = p.Opens
		}
		if p.Contains(s, duration) {
			return s, true
		}
	}
	return 0, false
}

// MidWindow returns the midpoint (minute of day) of the weekday's
// aggregate opening span, used for alignment scoring. ok is false when
// the day has no periods.
func (w WeekHours) MidWindow(day time.Weekday) (mid int, ok bool) {
	periods := w[int(day)]
	if len(periods) == 0 {
		return 0, false
	}
	earliest := periods[0].Opens
	latest := periods[0].Closes
	for _, p := range periods[1:] {
		if p.Opens < earliest {
			earliest = p.Opens
		}
		if p.Closes > latest {
			latest = p.Closes
		}
	}
	return (earliest + latest) / 2, true
}
