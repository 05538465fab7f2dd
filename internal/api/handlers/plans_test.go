package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
)

type stubCatalog struct{ places []*domain.Place }

func (s *stubCatalog) ListPlaces(ctx context.Context) ([]*domain.Place, error) {
	return s.places, nil
}

type stubTravel struct{}

func (stubTravel) TravelTime(ctx context.Context, origin, dest domain.Coordinates, mode domain.TravelMode) (ports.TravelResult, error) {
	return ports.TravelResult{DurationMinutes: 10, DistanceMeters: 800, Mode: mode}, nil
}

func testHandler() *PlanHandler {
	museum := &domain.Place{
		ID:           "m1",
		Name:         "City Museum",
		Coordinates:  domain.Coordinates{Lat: 35.001, Lon: 135.001},
		Categories:   []string{"museum"},
		ReviewCount:  6000,
		Rating:       4.5,
		VisitMinutes: 90,
	}
	park := &domain.Place{
		ID:           "p1",
		Name:         "Central Park",
		Coordinates:  domain.Coordinates{Lat: 35.002, Lon: 135.002},
		Categories:   []string{"park"},
		ReviewCount:  2500,
		Rating:       4.2,
		VisitMinutes: 60,
	}

	engine := services.NewEngine(&stubCatalog{places: []*domain.Place{museum, park}}, stubTravel{}, nil)
	return &PlanHandler{
		Engine:         engine,
		FallbackCenter: domain.Coordinates{Lat: 35.0, Lon: 135.0},
	}
}

func postPlan(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/plans/day", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestPlanDayReturnsSchedule(t *testing.T) {
	h := testHandler()

	body := `{
		"interests": ["museum", "park"],
		"start_lat": 35.0,
		"start_lon": 135.0,
		"daily_hours": 8,
		"start_time": "09:00",
		"start_date": "2026-01-05"
	}`
	rec := postPlan(t, h.PlanDay, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.DailyPlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Entries) == 0 {
		t.Fatal("expected scheduled entries")
	}
	if res.Date != "2026-01-05" {
		t.Errorf("date = %q", res.Date)
	}
	first := res.Entries[0]
	if first.Arrival == "" || first.Departure == "" {
		t.Errorf("entry clocks missing: %+v", first)
	}
}

func TestPlanDayUsesFallbackCenterWithoutStart(t *testing.T) {
	h := testHandler()

	rec := postPlan(t, h.PlanDay, `{"interests": ["museum"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestPlanDayRejectsBadRequests(t *testing.T) {
	h := testHandler()

	cases := map[string]string{
		"invalid json":        `{`,
		"unknown field":       `{"start_lat": 35, "start_lon": 135, "bogus": 1}`,
		"bad start time":      `{"start_lat": 35, "start_lon": 135, "start_time": "late"}`,
		"bad date":            `{"start_lat": 35, "start_lon": 135, "start_date": "soon"}`,
		"bad mode":            `{"start_lat": 35, "start_lon": 135, "mode": "teleport"}`,
		"daily hours too big": `{"start_lat": 35, "start_lon": 135, "daily_hours": 40}`,
	}
	for name, body := range cases {
		if rec := postPlan(t, h.PlanDay, body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestPlanDayRejectsWrongMethod(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/plans/day", nil)
	rec := httptest.NewRecorder()
	h.PlanDay(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestPlanTripReturnsMultipleDays(t *testing.T) {
	h := testHandler()

	body := `{
		"interests": ["museum"],
		"start_lat": 35.0,
		"start_lon": 135.0,
		"start_date": "2026-01-05",
		"days": 2
	}`
	req := httptest.NewRequest(http.MethodPost, "/plans/trip", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.PlanTrip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.TripPlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.PlanID == "" {
		t.Error("missing plan id")
	}
	if len(res.Days) != 2 {
		t.Errorf("got %d days, want 2", len(res.Days))
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"23:59", 1439, false},
		{"0:05", 5, false},
		{"24:00", 0, true},
		{"nine", 0, true},
	}
	for _, tc := range cases {
		got, err := parseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseClock(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("parseClock(%q) = (%d, %v), want %d", tc.in, got, err, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock(540); got != "09:00" {
		t.Errorf("formatClock(540) = %q", got)
	}
	if got := formatClock(1439); got != "23:59" {
		t.Errorf("formatClock(1439) = %q", got)
	}
}
