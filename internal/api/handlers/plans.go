package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
)

type PlanHandler struct {
	Engine   *services.Engine
	Geocoder ports.Geocoder // optional
	// FallbackCenter anchors requests whose start location cannot be
	// resolved; a zero value disables the fallback.
	FallbackCenter domain.Coordinates
}

// PlanDay produces a single-day itinerary.
func (h *PlanHandler) PlanDay(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePlanRequest(w, r)
	if !ok {
		return
	}
	req.Days = 1

	plan, err := h.Engine.GenerateSingleDayPlan(r.Context(), req)
	if err != nil {
		log.Printf("plan day failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toDailyPlanResponse(plan))
}

// PlanTrip produces a multi-day itinerary.
func (h *PlanHandler) PlanTrip(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePlanRequest(w, r)
	if !ok {
		return
	}

	trip, err := h.Engine.GenerateMultiDayPlan(r.Context(), req)
	if err != nil {
		log.Printf("plan trip failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.TripPlanResponse{
		PlanID:             trip.ID,
		Days:               make([]dto.DailyPlanResponse, 0, len(trip.Days)),
		VisitMinutes:       trip.VisitMinutes,
		TravelMinutes:      trip.TravelMinutes,
		DiningMinutes:      trip.DiningMinutes,
		UncoveredInterests: trip.UncoveredInterests,
	}
	for i := range trip.Days {
		res.Days = append(res.Days, *toDailyPlanResponse(&trip.Days[i]))
	}
	for _, m := range trip.MissedPlaces {
		res.MissedPlaces = append(res.MissedPlaces, dto.MissedPlaceResponse{
			PlaceID: m.Place.ID,
			Name:    m.Place.Name,
			Reason:  m.Reason,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// decodePlanRequest parses and validates the shared plan request shape.
// It writes the error response itself and reports ok=false on failure.
func (h *PlanHandler) decodePlanRequest(w http.ResponseWriter, r *http.Request) (*domain.TripRequest, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return nil, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return nil, false
	}

	start, ok := h.resolveStart(w, r, &req)
	if !ok {
		return nil, false
	}

	var ret *domain.Coordinates
	if req.ReturnLat != nil && req.ReturnLon != nil {
		ret = &domain.Coordinates{Lat: *req.ReturnLat, Lon: *req.ReturnLon}
	}

	dailyMinutes := 8 * 60
	if req.DailyHours != 0 {
		if req.DailyHours < 1 || req.DailyHours > 16 {
			writeError(w, r, http.StatusBadRequest, "daily_hours must be between 1 and 16")
			return nil, false
		}
		dailyMinutes = int(req.DailyHours * 60)
	}

	startMinute := 9 * 60
	if req.StartTime != "" {
		m, err := parseClock(req.StartTime)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start_time must look like 09:00")
			return nil, false
		}
		startMinute = m
	}

	startDate := time.Now().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		d, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start_date must look like 2026-04-01")
			return nil, false
		}
		startDate = d
	}

	days := req.Days
	if days == 0 {
		days = 1
	}
	if days < 1 || days > 14 {
		writeError(w, r, http.StatusBadRequest, "days must be between 1 and 14")
		return nil, false
	}

	mode := domain.ModeWalking
	switch strings.ToLower(strings.TrimSpace(req.Mode)) {
	case "", "walking":
	case "driving":
		mode = domain.ModeDriving
	default:
		writeError(w, r, http.StatusBadRequest, "mode must be walking or driving")
		return nil, false
	}

	return &domain.TripRequest{
		Interests:    req.Interests,
		Start:        start,
		Return:       ret,
		DailyMinutes: dailyMinutes,
		StartMinute:  startMinute,
		StartDate:    startDate,
		Days:         days,
		Mode:         mode,
	}, true
}

// resolveStart prefers explicit coordinates, then a geocoded address,
// then the configured regional center.
func (h *PlanHandler) resolveStart(w http.ResponseWriter, r *http.Request, req *dto.PlanRequest) (domain.Coordinates, bool) {
	if req.StartLat != nil && req.StartLon != nil {
		return domain.Coordinates{Lat: *req.StartLat, Lon: *req.StartLon}, true
	}

	address := strings.TrimSpace(req.StartAddress)
	if address != "" && h.Geocoder != nil {
		coords, err := h.Geocoder.Geocode(r.Context(), address)
		if err == nil {
			return coords, true
		}
		log.Printf("geocode failed: address=%q err=%v", address, err)
	}

	if h.FallbackCenter != (domain.Coordinates{}) {
		return h.FallbackCenter, true
	}

	writeError(w, r, http.StatusBadRequest, "start location is required")
	return domain.Coordinates{}, false
}

func toDailyPlanResponse(plan *domain.DailyPlan) *dto.DailyPlanResponse {
	res := &dto.DailyPlanResponse{
		DayIndex:          plan.DayIndex,
		Date:              plan.Date.Format("2006-01-02"),
		Entries:           make([]dto.ScheduleEntryResponse, 0, len(plan.Entries)),
		VisitMinutes:      plan.VisitMinutes,
		TravelMinutes:     plan.TravelMinutes,
		DiningMinutes:     plan.DiningMinutes,
		OverBudgetMinutes: plan.OverBudgetMinutes,
		Note:              plan.Note,
	}
	for _, e := range plan.Entries {
		res.Entries = append(res.Entries, dto.ScheduleEntryResponse{
			PlaceID:        e.Place.ID,
			Name:           e.Place.Name,
			Arrival:        formatClock(e.Arrival),
			Departure:      formatClock(e.Departure),
			VisitMinutes:   e.VisitMinutes,
			TravelMinutes:  e.TravelMinutes,
			TravelMode:     string(e.TravelMode),
			DiningMinutes:  e.DiningMinutes,
			DiningNote:     e.DiningNote,
			AdjustmentNote: e.AdjustmentNote,
		})
	}
	return res
}

func parseClock(s string) (int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return hh*60 + mm, nil
}

func formatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
