package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
)

func sampleDayPlan() *domain.DailyPlan {
	return &domain.DailyPlan{
		Entries: []domain.ScheduleEntry{
			{Place: testPlace("a", 35.001, 135.001), Arrival: 600, Departure: 660, VisitMinutes: 60},
			{Place: testPlace("b", 35.002, 135.002), Arrival: 675, Departure: 735, VisitMinutes: 60},
		},
		VisitMinutes:  120,
		TravelMinutes: 30,
	}
}

func TestAddReturnDiningStop(t *testing.T) {
	original := sampleDayPlan()
	stop := ports.DiningStop{Name: "ramen-ya", DetourMinutes: 10, DiningMinutes: 50}

	out := AddReturnDiningStop(original, stop)

	last := out.Entries[len(out.Entries)-1]
	assert.Equal(t, 60, last.DiningMinutes)
	assert.Equal(t, "ramen-ya", last.DiningNote)
	assert.Equal(t, 795, last.Departure)
	assert.Equal(t, 60, out.DiningMinutes)

	// The input plan stays untouched.
	assert.Zero(t, original.Entries[1].DiningMinutes)
	assert.Equal(t, 735, original.Entries[1].Departure)
}

func TestAddReturnDiningStopReplacesExisting(t *testing.T) {
	plan := AddReturnDiningStop(sampleDayPlan(), ports.DiningStop{Name: "first", DetourMinutes: 5, DiningMinutes: 40})
	out := AddReturnDiningStop(plan, ports.DiningStop{Name: "second", DetourMinutes: 10, DiningMinutes: 60})

	last := out.Entries[len(out.Entries)-1]
	assert.Equal(t, 70, last.DiningMinutes)
	assert.Equal(t, "second", last.DiningNote)
	assert.Equal(t, 70, out.DiningMinutes, "replacing must not double-count")
}

func TestRemoveReturnDiningStop(t *testing.T) {
	withStop := AddReturnDiningStop(sampleDayPlan(), ports.DiningStop{Name: "ramen-ya", DetourMinutes: 10, DiningMinutes: 50})

	out := RemoveReturnDiningStop(withStop)

	last := out.Entries[len(out.Entries)-1]
	assert.Zero(t, last.DiningMinutes)
	assert.Empty(t, last.DiningNote)
	assert.Equal(t, 735, last.Departure)
	assert.Zero(t, out.DiningMinutes)
}

func TestDiningStopHelpersOnEmptyPlan(t *testing.T) {
	empty := &domain.DailyPlan{}

	added := AddReturnDiningStop(empty, ports.DiningStop{Name: "x", DiningMinutes: 30})
	require.Empty(t, added.Entries)
	assert.Zero(t, added.DiningMinutes)

	removed := RemoveReturnDiningStop(empty)
	assert.Empty(t, removed.Entries)
}
